// Package workflow implements the authorized price-update state machine.
package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/storeops-br/catalog-admin-api/internal/domain"
)

// State names the position of one price editor in its lifecycle.
type State string

const (
	StateClosed     State = "closed"
	StateOpen       State = "open"
	StateCommitting State = "committing"
)

// User-facing messages. These exact strings are part of the contract with
// the presentation shell.
const (
	MsgUnauthorized = "Only admin users can edit the price of a product"
	MsgNonNumeric   = "Only numbers are allowed"
	MsgTooLarge     = "The max possible price is 999.99"
)

// maxPrice is inclusive: exactly 999.99 is a valid price.
var maxPrice = decimal.RequireFromString("999.99")

// Draft is the validation outcome for the raw text entered so far.
type Draft struct {
	Text   string
	Value  decimal.Decimal
	Valid  bool
	Reason string
	Err    error
}

// ValidateDraft is the pure reducer from raw input text to a draft. It has
// no dependency on the editor so it can be exercised directly.
func ValidateDraft(text string) Draft {
	d := Draft{Text: text}

	value, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil || value.IsNegative() {
		d.Reason = MsgNonNumeric
		d.Err = domain.ErrNonNumeric
		return d
	}
	if value.GreaterThan(maxPrice) {
		d.Reason = MsgTooLarge
		d.Err = domain.ErrTooLarge
		return d
	}

	d.Value = value
	d.Valid = true
	return d
}

// Notification carries the confirmation emitted after a successful commit.
type Notification struct {
	Text    string
	Product domain.Product
}

// Updater is the slice of the catalog client the editor needs.
type Updater interface {
	Update(ctx context.Context, product domain.Product) (domain.Product, error)
}

// PriceEditor drives the price edit of one bound product.
//
// Lifecycle: Closed -> Open(draft) -> {Committing | Closed}. An editor for a
// non-admin viewer still opens, but holds no draft and reports
// MsgUnauthorized; cancel is its only exit. A failed commit stays in
// Committing with the draft intact so the caller may retry.
type PriceEditor struct {
	product    domain.Product
	updater    Updater
	authorized bool
	state      State
	draft      Draft
	hasDraft   bool
}

// Open creates an editor bound to the given product. Authorization is fixed
// at open time; switching identity afterwards does not affect an open editor.
func Open(product domain.Product, authorized bool, updater Updater) *PriceEditor {
	return &PriceEditor{
		product:    product,
		updater:    updater,
		authorized: authorized,
		state:      StateOpen,
	}
}

func (e *PriceEditor) State() State            { return e.state }
func (e *PriceEditor) Authorized() bool        { return e.authorized }
func (e *PriceEditor) Product() domain.Product { return e.product }

// Draft returns the current draft and whether one exists. Unauthorized
// editors never hold a draft.
func (e *PriceEditor) Draft() (Draft, bool) {
	return e.draft, e.hasDraft
}

// Message returns the text the shell should surface: the fixed authorization
// message, the current validation reason, or "".
func (e *PriceEditor) Message() string {
	if !e.authorized {
		return MsgUnauthorized
	}
	if e.hasDraft && !e.draft.Valid {
		return e.draft.Reason
	}
	return ""
}

// SetDraft replaces the draft text and re-validates. Validation failures are
// not errors; they are readable from the returned draft.
func (e *PriceEditor) SetDraft(text string) (Draft, error) {
	if !e.authorized {
		return Draft{}, domain.ErrUnauthorized
	}
	if e.state == StateClosed {
		return Draft{}, domain.ErrEditorClosed
	}
	e.draft = ValidateDraft(text)
	e.hasDraft = true
	return e.draft, nil
}

// Submit commits a valid draft: Open -> Committing, push through the
// updater, replace the bound product and close. On update failure the editor
// stays in Committing with the draft preserved.
func (e *PriceEditor) Submit(ctx context.Context) (Notification, error) {
	if !e.authorized {
		return Notification{}, domain.ErrUnauthorized
	}
	if e.state == StateClosed {
		return Notification{}, domain.ErrEditorClosed
	}
	if !e.hasDraft || !e.draft.Valid {
		if e.hasDraft && e.draft.Err != nil {
			return Notification{}, e.draft.Err
		}
		return Notification{}, domain.ErrNonNumeric
	}

	e.state = StateCommitting

	updated, err := e.updater.Update(ctx, e.product.WithPrice(e.draft.Value))
	if err != nil {
		return Notification{}, err
	}

	e.product = updated
	note := Notification{
		Text:    fmt.Sprintf("Price %s for '%s' updated", e.draft.Value.String(), updated.Title),
		Product: updated,
	}

	e.state = StateClosed
	e.draft = Draft{}
	e.hasDraft = false
	return note, nil
}

// Cancel discards the draft and closes the editor. It is valid from any
// state except a commit that already succeeded, and has no network effect.
func (e *PriceEditor) Cancel() {
	e.state = StateClosed
	e.draft = Draft{}
	e.hasDraft = false
}
