package validator

import "testing"

type sample struct {
	Email string `json:"email" validate:"omitempty,email"`
	Qty   int    `json:"qty" validate:"min=1,max=10"`
}

func TestFieldErrorsUseJSONNames(t *testing.T) {
	v := New()
	err := v.Struct(sample{Email: "nope", Qty: 11})
	if err == nil {
		t.Fatal("expected validation error")
	}

	fields := FieldErrors(err)
	if fields["email"] != "email" {
		t.Errorf("email tag = %q", fields["email"])
	}
	if fields["qty"] != "max" {
		t.Errorf("qty tag = %q", fields["qty"])
	}
}

func TestFieldErrorsNonValidation(t *testing.T) {
	if FieldErrors(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
}

func TestSlugTag(t *testing.T) {
	v := New()
	if err := v.Var("ceiling-fan-install", "slug"); err != nil {
		t.Errorf("expected valid slug: %v", err)
	}
	for _, bad := range []string{"Ceiling Fan", "-fan", "fan--install", "fan_install"} {
		if err := v.Var(bad, "slug"); err == nil {
			t.Errorf("expected %q to fail slug validation", bad)
		}
	}
}
