package rewards

import "errors"

var (
	ErrUnauthorized     = errors.New("rewards: unauthorized")
	ErrInvalidParameter = errors.New("rewards: invalid parameter")
	ErrInvalidPolicy    = errors.New("rewards: invalid policy")
	ErrPolicyNotFound   = errors.New("rewards: policy not configured")
)
