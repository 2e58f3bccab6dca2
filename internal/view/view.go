// Package view turns a dashboard state snapshot into what the operator sees.
// Render is pure: the same state always yields the same page.
package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/kirychukyurii/dr-dashboard/internal/model"
)

// Texts shown by the dashboard
const (
	Title          = "Cloud Disaster Recovery Dashboard"
	LoadingText    = "Loading system status..."
	ErrorText      = "Could not load system status. Is the backend running?"
	RefreshLabel   = "Refresh Status"
	FailoverLabel  = "Initiate Failover"
	DatabaseLabel  = "Database Status"
	primaryHeading = "Primary Site"
	drHeading      = "DR Site"
)

// Site card kinds, also used as CSS classes
const (
	CardPrimary = "primary"
	CardDR      = "dr"
)

// Page is everything a front-end needs to draw the dashboard
type Page struct {
	Title        string
	Loading      bool
	LoadingText  string // set only while loading
	ErrorText    string // set only when the status is absent and not loading
	Cards        []SiteCard
	Controls     []Control
	LastFailover string // empty when nothing was journaled
	Notice       string
}

// SiteCard shows one site
type SiteCard struct {
	Kind           string
	Heading        string
	Region         string
	DatabaseStatus string
}

// Control is an operator action button
type Control struct {
	Action   string // "refresh" or "failover"
	Label    string
	Disabled bool
}

// Control actions
const (
	ActionRefresh  = "refresh"
	ActionFailover = "failover"
)

// Render builds the page for a state snapshot
func Render(state model.State) Page {
	page := Page{
		Title:   Title,
		Loading: state.Loading,
		Controls: []Control{
			{Action: ActionRefresh, Label: RefreshLabel, Disabled: state.Loading},
			{Action: ActionFailover, Label: FailoverLabel, Disabled: state.Loading},
		},
	}

	switch {
	case state.Loading:
		page.LoadingText = LoadingText
	case state.Status == nil:
		page.ErrorText = ErrorText
	default:
		page.Cards = []SiteCard{
			siteCard(CardPrimary, primaryHeading, state.Status.PrimarySite),
			siteCard(CardDR, drHeading, state.Status.DRSite),
		}
	}

	if state.LastFailover != nil {
		page.LastFailover = describeFailover(state.LastFailover)
	}

	return page
}

// WithNotice returns the page carrying a one-shot operator notice
func (p Page) WithNotice(notice string) Page {
	p.Notice = notice
	return p
}

func siteCard(kind, heading string, site model.SiteStatus) SiteCard {
	return SiteCard{
		Kind:           kind,
		Heading:        fmt.Sprintf("%s (%s)", heading, site.Region),
		Region:         site.Region,
		DatabaseStatus: site.DatabaseStatus,
	}
}

func describeFailover(r *model.FailoverRecord) string {
	result := "failed"
	if r.Success {
		result = "accepted"
	}
	return fmt.Sprintf("Last failover requested %s via %s (%s): %s",
		r.RequestedAt.UTC().Format(time.RFC3339), r.RequestedBy, result, r.Message)
}

// Text renders the page as plain text for terminals
func Text(p Page) string {
	var b strings.Builder

	b.WriteString(p.Title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", len(p.Title)))
	b.WriteString("\n")

	switch {
	case p.LoadingText != "":
		b.WriteString(p.LoadingText + "\n")
	case p.ErrorText != "":
		b.WriteString(p.ErrorText + "\n")
	default:
		for _, card := range p.Cards {
			fmt.Fprintf(&b, "%s\n  %s: %s\n", card.Heading, DatabaseLabel, card.DatabaseStatus)
		}
	}

	if p.LastFailover != "" {
		b.WriteString(p.LastFailover + "\n")
	}

	return b.String()
}
