package result

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that a defaulting team and reason are set, and that
// ReasonOther carries a description.
func (r WalkoverReport) Validate() error {
	r.Detail = strings.TrimSpace(r.Detail)
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	for _, fe := range fieldErrs {
		switch fe.Field() {
		case "DefaultingTeam", "Reason":
			return fmt.Errorf("%w: %s failed %q", ErrMissingWalkoverReason, fe.Field(), fe.Tag())
		case "Detail":
			return fmt.Errorf("%w: %s failed %q", ErrMissingWalkoverDetail, fe.Field(), fe.Tag())
		}
	}
	return err
}

// ParseWalkoverReason converts user input such as "no_show" into a WalkoverReason.
func ParseWalkoverReason(s string) (WalkoverReason, error) {
	switch reason := WalkoverReason(strings.ToUpper(strings.TrimSpace(s))); reason {
	case ReasonNoShow, ReasonLateCancellation, ReasonInjury, ReasonPersonalEmergency, ReasonOther:
		return reason, nil
	default:
		return "", fmt.Errorf("%w: unknown reason %q", ErrMissingWalkoverReason, s)
	}
}
