package apperr

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ToGRPC converts err to a gRPC status error. Errors that are not business
// errors become Internal without leaking their text.
func ToGRPC(err error) error {
	if err == nil {
		return nil
	}
	e, ok := As(err)
	if !ok {
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(GRPCCode(e.Kind), e.Message)
}

func GRPCCode(k Kind) codes.Code {
	switch k {
	case KindValidation:
		return codes.InvalidArgument
	case KindConflict:
		return codes.FailedPrecondition
	case KindNotFound:
		return codes.NotFound
	case KindUnauthenticated:
		return codes.Unauthenticated
	default:
		return codes.Internal
	}
}
