package export

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/browser"
)

var validate = validator.New()

// ErrNoRecipient is returned when the address is blank.
var ErrNoRecipient = errors.New("export: please enter an email address")

// MailtoURL builds a mailto: link with the subject and body prefilled.
// Spaces are encoded as %20, which mail clients expect.
func MailtoURL(to, subject, body string) string {
	enc := func(s string) string {
		return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
	}
	return "mailto:" + enc(to) + "?subject=" + enc(subject) + "&body=" + enc(body)
}

// Opener hands a URL to something that can show it.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// SystemOpener hands URLs to the platform's default handler.
type SystemOpener struct{}

var openURL = browser.OpenURL

func (SystemOpener) Open(ctx context.Context, u string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return openURL(u)
}

// Mailer opens the mail client on a report.
type Mailer struct {
	Opener Opener
}

// Send validates to and opens a prefilled message. It returns the URL it
// opened.
func (m Mailer) Send(ctx context.Context, to string, r Report) (string, error) {
	to = strings.TrimSpace(to)
	if to == "" {
		return "", ErrNoRecipient
	}
	if err := validate.Var(to, "email"); err != nil {
		return "", fmt.Errorf("export: %q is not an email address: %w", to, err)
	}
	u := MailtoURL(to, r.Subject(), r.String())
	opener := m.Opener
	if opener == nil {
		opener = SystemOpener{}
	}
	return u, opener.Open(ctx, u)
}
