// Package emailcheck implements the multi-stage email address checklist:
// format, MX lookup, disposable-provider match, and a library-backed
// comprehensive check. Checks after format only run when format passes.
package emailcheck

import (
	"context"
	"log/slog"
	"net"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// MXResolver lets us stub DNS in tests.
type MXResolver interface {
	LookupMX(ctx context.Context, domain string) ([]*net.MX, error)
}

type netResolver struct {
	r *net.Resolver
}

func (n netResolver) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	return n.r.LookupMX(ctx, domain)
}

// Checks holds the individual check outcomes, mirrored in the API response.
type Checks struct {
	FormatValid        bool `json:"format_valid"`
	DomainExists       bool `json:"domain_exists"`
	IsDisposable       bool `json:"is_disposable"`
	ComprehensiveValid bool `json:"comprehensive_valid"`
}

// Result is the outcome of the full checklist for one address.
type Result struct {
	Email  string   `json:"email"`
	Valid  bool     `json:"valid"`
	Checks Checks   `json:"checks"`
	Errors []string `json:"errors"`
}

// Validator runs the checklist. The disposable set is read-only after
// construction; one Validator serves all requests.
type Validator struct {
	disposable map[string]struct{}
	resolver   MXResolver
	mxTimeout  time.Duration
	log        *slog.Logger
}

// NewValidator builds a validator over the given disposable-domain set.
// A nil resolver uses the system resolver.
func NewValidator(disposableDomains []string, resolver MXResolver, mxTimeout time.Duration, log *slog.Logger) *Validator {
	if resolver == nil {
		resolver = netResolver{r: net.DefaultResolver}
	}
	if mxTimeout <= 0 {
		mxTimeout = 5 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	disposable := make(map[string]struct{}, len(disposableDomains))
	for _, d := range disposableDomains {
		disposable[strings.ToLower(d)] = struct{}{}
	}
	return &Validator{disposable: disposable, resolver: resolver, mxTimeout: mxTimeout, log: log}
}

// ValidateFormat is the basic regex format check.
func (v *Validator) ValidateFormat(email string) bool {
	return emailPattern.MatchString(email)
}

// DomainExists reports whether the address's domain has an MX record.
func (v *Validator) DomainExists(ctx context.Context, email string) bool {
	domain := domainPart(email)
	if domain == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, v.mxTimeout)
	defer cancel()
	records, err := v.resolver.LookupMX(ctx, domain)
	return err == nil && len(records) > 0
}

// IsDisposable reports whether the address belongs to a disposable provider.
func (v *Validator) IsDisposable(email string) bool {
	_, ok := v.disposable[strings.ToLower(domainPart(email))]
	return ok
}

// comprehensive runs the library-backed RFC validation. Returns the failure
// message when invalid.
func (v *Validator) comprehensive(email string) (bool, string) {
	if err := validation.Validate(email, validation.Required, is.EmailFormat); err != nil {
		return false, err.Error()
	}
	return true, ""
}

// Check runs the full checklist. Domain, disposable, and comprehensive
// checks only run once the format check passes.
func (v *Validator) Check(ctx context.Context, email string) Result {
	res := Result{Email: email, Errors: []string{}}

	res.Checks.FormatValid = v.ValidateFormat(email)
	if !res.Checks.FormatValid {
		res.Errors = append(res.Errors, "Invalid email format")
	}

	if res.Checks.FormatValid {
		res.Checks.DomainExists = v.DomainExists(ctx, email)
		if !res.Checks.DomainExists {
			res.Errors = append(res.Errors, "Domain does not exist or has no MX record")
		}

		res.Checks.IsDisposable = v.IsDisposable(email)
		if res.Checks.IsDisposable {
			res.Errors = append(res.Errors, "Disposable email addresses are not allowed")
		}

		ok, msg := v.comprehensive(email)
		res.Checks.ComprehensiveValid = ok
		if !ok {
			res.Errors = append(res.Errors, "Comprehensive validation failed: "+msg)
		}
	}

	res.Valid = res.Checks.FormatValid &&
		res.Checks.DomainExists &&
		!res.Checks.IsDisposable &&
		res.Checks.ComprehensiveValid

	v.log.Info("emailcheck.done", "email", email, "valid", res.Valid)
	return res
}

func domainPart(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return email[at+1:]
}
