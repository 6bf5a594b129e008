// Package emailcheck validates email addresses: a deterministic format check
// plus a deliverability check backed by the ZeroBounce reputation API. The
// remote check degrades to a local heuristic whenever ZeroBounce is
// unconfigured, unreachable or inconclusive, so a degraded third party can
// never block a legitimate registration.
package emailcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Result is the outcome of a validation step.
type Result struct {
	Accepted bool
	Reason   string
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// disposableDomains rejects deterministically even when ZeroBounce is down.
var disposableDomains = []string{
	"tempmail.com", "guerrillamail.com", "mailinator.com",
	"10minutemail.com", "throwawaymail.com", "yopmail.com",
	"fake.com", "trashmail.com", "temp-mail.org",
	"disposableemail.com", "getnada.com", "maildrop.cc",
	"tmpmail.org", "fakeinbox.com",
}

var commonDomains = []string{
	"gmail.com", "hotmail.com", "outlook.com", "yahoo.com",
	"icloud.com", "protonmail.com", "live.com", "aol.com",
}

// CheckFormat validates the shape of an email address: local@domain.tld
// pattern, length between 6 and 60 characters, no whitespace.
func CheckFormat(email string) Result {
	if strings.ContainsAny(email, " \t") {
		return Result{Reason: "El email no puede contener espacios"}
	}
	if len(email) < 6 || len(email) > 60 {
		return Result{Reason: "El email debe tener entre 6 y 60 caracteres"}
	}
	if !emailPattern.MatchString(email) {
		return Result{Reason: "Formato de email inválido. Ejemplo: usuario@dominio.com"}
	}

	return Result{Accepted: true}
}

// Checker performs deliverability checks through ZeroBounce.
type Checker struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *zerolog.Logger
}

// NewChecker creates a Checker. An empty apiKey skips the remote call and
// relies on the local heuristic only.
func NewChecker(apiKey, baseURL string, logger *zerolog.Logger) *Checker {
	return &Checker{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

type validateResponse struct {
	Status    string `json:"status"`
	SubStatus string `json:"sub_status"`
	Error     string `json:"error"`
}

// CheckDeliverability decides whether mail sent to the address is likely to
// arrive. A definitive ZeroBounce verdict is honored; anything else falls
// back to the local heuristic.
func (c *Checker) CheckDeliverability(ctx context.Context, email string) Result {
	if c.apiKey == "" {
		c.logger.Debug().Msg("zerobounce api key not configured, using basic validation")
		return c.basicValidation(email)
	}

	resp, err := c.validateRemote(ctx, email)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", email).Msg("zerobounce unavailable, using basic validation")
		return c.basicValidation(email)
	}

	if resp.Error != "" {
		c.logger.Warn().Str("error", resp.Error).Msg("zerobounce rejected the request, using basic validation")
		return c.basicValidation(email)
	}

	switch resp.Status {
	case "valid":
		return Result{Accepted: true}
	case "invalid", "spamtrap", "abuse":
		reason := "El correo electrónico no es válido"
		switch resp.SubStatus {
		case "mailbox_not_found":
			reason = "El correo electrónico no existe"
		case "no_mx_record":
			reason = "El dominio no tiene servidores de email"
		}
		return Result{Reason: reason}
	default:
		// catch-all, unknown, do_not_mail: inconclusive.
		c.logger.Debug().Str("status", resp.Status).Msg("inconclusive zerobounce status, using basic validation")
		return c.basicValidation(email)
	}
}

func (c *Checker) validateRemote(ctx context.Context, email string) (*validateResponse, error) {
	endpoint := fmt.Sprintf("%s/validate?api_key=%s&email=%s&ip_address=",
		c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(email))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("zerobounce status code %d", resp.StatusCode)
	}

	var body validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	return &body, nil
}

// basicValidation is the local heuristic: reject disposable-domain suffixes,
// accept the common consumer domains, accept everything else with a note
// that the address was not verified remotely.
func (c *Checker) basicValidation(email string) Result {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return Result{Reason: "Formato de email inválido. Ejemplo: usuario@dominio.com"}
	}
	domain := strings.ToLower(email[at+1:])

	for _, disposable := range disposableDomains {
		if strings.HasSuffix(domain, disposable) {
			return Result{Reason: "No se permiten emails temporales o desechables"}
		}
	}

	for _, common := range commonDomains {
		if domain == common {
			return Result{Accepted: true}
		}
	}

	return Result{Accepted: true, Reason: "Email aceptado (validación básica)"}
}

// Credits reports the remaining ZeroBounce credits.
func (c *Checker) Credits(ctx context.Context) (int, string) {
	if c.apiKey == "" {
		return 0, "API key no configurada"
	}

	endpoint := fmt.Sprintf("%s/getcredits?api_key=%s", c.baseURL, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, "Error verificando créditos: " + err.Error()
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, "Error verificando créditos: " + err.Error()
	}
	defer resp.Body.Close()

	var body struct {
		Credits string `json:"Credits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, "Error verificando créditos: " + err.Error()
	}

	credits, _ := strconv.Atoi(body.Credits)
	if credits > 0 {
		return credits, fmt.Sprintf("Tienes %d créditos disponibles", credits)
	}

	return 0, "No hay créditos disponibles"
}
