package quotes

import (
	"fmt"
	"net/http"
	"net/mail"
	"net/url"
	"strings"
	"time"

	formcodec "github.com/go-playground/form/v4"

	"github.com/tablefare/cateringbackend/lib/myerrors"
)

// QuoteForm is the contact form the public site posts when a prospect asks
// for a catering quote.
type QuoteForm struct {
	Name       string `form:"name"`
	Email      string `form:"email"`
	Phone      string `form:"phone"`
	EventDate  string `form:"eventDate"`
	GuestCount int    `form:"guestCount"`
	Message    string `form:"message"`
}

func NewQuoteFormFromRequest(r *http.Request) (QuoteForm, error) {
	err := r.ParseForm()
	if err != nil {
		return QuoteForm{}, myerrors.NewInvalidInputError(err)
	}
	return NewQuoteFormFromValues(r.Form)
}

func NewQuoteFormFromValues(values url.Values) (QuoteForm, error) {
	form := QuoteForm{}
	err := formcodec.NewDecoder().Decode(&form, values)
	if err != nil {
		return form, fmt.Errorf("error decoding form: %s", err)
	}

	return form, nil
}

func (f QuoteForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := mail.ParseAddress(f.Email); err != nil {
		return fmt.Errorf("email %q is invalid", f.Email)
	}
	if f.GuestCount < 0 {
		return fmt.Errorf("guest count cannot be negative")
	}

	return nil
}

type QuoteRequest struct {
	UID        string
	Name       string
	Email      string
	Phone      string
	EventDate  string
	GuestCount int
	Message    string `datastore:",noindex"`
	CreatedAt  time.Time
}
