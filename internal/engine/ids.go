package engine

import "github.com/google/uuid"

// freshRequestId mints a collision-free ChoiceRequest.RequestId.
func freshRequestId() string { return uuid.NewString() }
