package view_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirychukyurii/dr-dashboard/internal/model"
	"github.com/kirychukyurii/dr-dashboard/internal/view"
)

func loaded(status model.SystemStatus) model.State {
	return model.State{}.WithStatus(&status, time.Unix(0, 0))
}

func TestRender_LoadedShowsTwoCardsVerbatim(t *testing.T) {
	page := view.Render(loaded(model.SystemStatus{
		PrimarySite: model.SiteStatus{Region: "us-east-1", DatabaseStatus: "healthy"},
		DRSite:      model.SiteStatus{Region: "us-west-2", DatabaseStatus: "replicating"},
	}))

	require.Len(t, page.Cards, 2)
	assert.Equal(t, view.SiteCard{
		Kind:           view.CardPrimary,
		Heading:        "Primary Site (us-east-1)",
		Region:         "us-east-1",
		DatabaseStatus: "healthy",
	}, page.Cards[0])
	assert.Equal(t, view.SiteCard{
		Kind:           view.CardDR,
		Heading:        "DR Site (us-west-2)",
		Region:         "us-west-2",
		DatabaseStatus: "replicating",
	}, page.Cards[1])

	assert.Empty(t, page.LoadingText)
	assert.Empty(t, page.ErrorText)
	for _, c := range page.Controls {
		assert.False(t, c.Disabled, c.Action)
	}
}

func TestRender_FreeFormLabelsAreNotInterpreted(t *testing.T) {
	page := view.Render(loaded(model.SystemStatus{
		PrimarySite: model.SiteStatus{Region: "", DatabaseStatus: "<b>DEGRADED</b>"},
		DRSite:      model.SiteStatus{Region: "eu (west)", DatabaseStatus: ""},
	}))

	require.Len(t, page.Cards, 2)
	assert.Equal(t, "<b>DEGRADED</b>", page.Cards[0].DatabaseStatus)
	assert.Equal(t, "Primary Site ()", page.Cards[0].Heading)
	assert.Equal(t, "DR Site (eu (west))", page.Cards[1].Heading)
}

func TestRender_Loading(t *testing.T) {
	// A refresh from Loaded keeps the old status around but never shows it
	state := loaded(model.SystemStatus{
		PrimarySite: model.SiteStatus{Region: "a", DatabaseStatus: "b"},
		DRSite:      model.SiteStatus{Region: "c", DatabaseStatus: "d"},
	}).WithLoading(time.Unix(1, 0))

	page := view.Render(state)

	assert.True(t, page.Loading)
	assert.Equal(t, view.LoadingText, page.LoadingText)
	assert.Empty(t, page.ErrorText)
	assert.Empty(t, page.Cards)
	require.Len(t, page.Controls, 2)
	assert.Equal(t, view.Control{Action: view.ActionRefresh, Label: "Refresh Status", Disabled: true}, page.Controls[0])
	assert.Equal(t, view.Control{Action: view.ActionFailover, Label: "Initiate Failover", Disabled: true}, page.Controls[1])
}

func TestRender_Failed(t *testing.T) {
	state := model.State{}.WithStatus(nil, time.Unix(0, 0))

	page := view.Render(state)

	assert.Equal(t, "Could not load system status. Is the backend running?", page.ErrorText)
	assert.Empty(t, page.Cards, "no stale cards")
	for _, c := range page.Controls {
		assert.False(t, c.Disabled, "controls are enabled once loading ends")
	}
}

func TestRender_LastFailover(t *testing.T) {
	state := model.State{}.WithStatus(nil, time.Unix(0, 0)).WithFailover(&model.FailoverRecord{
		RequestedAt: time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC),
		RequestedBy: "web",
		Success:     true,
		Message:     "Failover initiated",
	})

	page := view.Render(state)
	assert.Equal(t, "Last failover requested 2026-10-15T09:30:00Z via web (accepted): Failover initiated", page.LastFailover)
}

func TestText(t *testing.T) {
	page := view.Render(loaded(model.SystemStatus{
		PrimarySite: model.SiteStatus{Region: "us-east-1", DatabaseStatus: "healthy"},
		DRSite:      model.SiteStatus{Region: "us-west-2", DatabaseStatus: "replicating"},
	}))

	want := "Cloud Disaster Recovery Dashboard\n" +
		"=================================\n" +
		"Primary Site (us-east-1)\n  Database Status: healthy\n" +
		"DR Site (us-west-2)\n  Database Status: replicating\n"
	assert.Equal(t, want, view.Text(page))

	failed := view.Text(view.Render(model.State{}.WithStatus(nil, time.Unix(0, 0))))
	assert.Contains(t, failed, view.ErrorText)
}
