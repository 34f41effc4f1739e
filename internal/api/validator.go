package api

import (
	"github.com/pfrederiksen/wca-notifier/internal/subscription"
	"github.com/pkg/errors"
)

// requestValidator plugs subscription validation into echo.
type requestValidator struct{}

func (requestValidator) Validate(i any) error {
	sub, ok := i.(*subscription.Subscription)
	if !ok {
		return errors.Errorf("cannot validate %T", i)
	}
	return subscription.Validate(sub)
}
