package types

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// EmailDraft is the compose form. Address fields hold comma-joined lists.
type EmailDraft struct {
	To          string `validate:"required,email_list"`
	CC          string `validate:"omitempty,email_list"`
	BCC         string `validate:"omitempty,email_list"`
	Subject     string `validate:"required"`
	Message     string `validate:"required"`
	Attachments []FilePayload
}

// SplitAddresses splits a comma-joined address list, dropping blanks.
func SplitAddresses(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

func newDraftValidator() *validator.Validate {
	validate := validator.New()
	_ = validate.RegisterValidation("email_list", func(fl validator.FieldLevel) bool {
		addrs := SplitAddresses(fl.Field().String())
		if len(addrs) == 0 {
			return false
		}
		for _, addr := range addrs {
			if validate.Var(addr, "email") != nil {
				return false
			}
		}
		return true
	})
	return validate
}

// Validate checks the draft the same way the mail endpoint does: subject and
// message are required and every address must be well formed.
func (d *EmailDraft) Validate() error {
	d.Subject = strings.TrimSpace(d.Subject)
	d.Message = strings.TrimSpace(d.Message)

	err := newDraftValidator().Struct(d)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid email draft: %s", strings.Join(fields, ", "))
}
