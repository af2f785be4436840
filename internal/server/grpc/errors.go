package grpc

import (
	"errors"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// statusCode maps a service error onto a gRPC code. Anything unrecognised
// is Internal.
func statusCode(err error) codes.Code {
	switch {
	case err == nil:
		return codes.OK
	case errors.Is(err, common.ErrorInvalidInput):
		return codes.InvalidArgument
	case errors.Is(err, common.ErrorNotFound):
		return codes.NotFound
	case errors.Is(err, common.ErrorInsufficientStock), errors.Is(err, common.ErrorShiftNotSet):
		return codes.FailedPrecondition
	case errors.Is(err, common.ErrorConflict):
		return codes.AlreadyExists
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrorInvalidCode):
		return codes.Unauthenticated
	case errors.Is(err, common.ErrorForbidden):
		return codes.PermissionDenied
	default:
		return codes.Internal
	}
}

// toStatus converts err to a status error. Internal details are not sent
// to the client.
func toStatus(err error) error {
	code := statusCode(err)
	if code == codes.Internal {
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}
