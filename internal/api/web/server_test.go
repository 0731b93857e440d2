package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/johan198205/lekia-translations-sub000/internal/adapters/db/memory"
	csvexporter "github.com/johan198205/lekia-translations-sub000/internal/adapters/exporter/csv"
	csvparser "github.com/johan198205/lekia-translations-sub000/internal/adapters/parser/csv"
	"github.com/johan198205/lekia-translations-sub000/internal/adapters/prompt"
	"github.com/johan198205/lekia-translations-sub000/internal/api/web"
	"github.com/johan198205/lekia-translations-sub000/internal/domain"
	"github.com/johan198205/lekia-translations-sub000/internal/usecase/exporter"
	"github.com/johan198205/lekia-translations-sub000/internal/usecase/gateway"
	"github.com/johan198205/lekia-translations-sub000/internal/usecase/importer"
	"github.com/johan198205/lekia-translations-sub000/internal/usecase/pipeline"
	"github.com/johan198205/lekia-translations-sub000/internal/usecase/progress"
)

type fixture struct {
	store  *memory.Store
	runner *pipeline.Runner
	srv    *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	return newFixtureIntervals(t, 10*time.Millisecond, time.Hour)
}

func newFixtureIntervals(t *testing.T, poll, heartbeat time.Duration) *fixture {
	t.Helper()
	store := memory.NewStore()
	gw := gateway.New(gateway.Config{Mode: gateway.ModeStub}, gateway.Deps{
		Prompt: prompt.New(nil), Glossary: store.Glossary(),
	})
	runner := pipeline.NewRunner(pipeline.Deps{
		Batches:      store.Batches(),
		Items:        store.Items(),
		Translations: store.Translations(),
		Gateway:      gw,
	})
	h := web.NewServer(web.Deps{
		Uploads:           store.Uploads(),
		Items:             store.Items(),
		Batches:           store.Batches(),
		Translations:      store.Translations(),
		Glossary:          store.Glossary(),
		Settings:          store.Settings(),
		Importer:          importer.New(store.Uploads(), store.Items(), csvparser.New(), nil),
		Exporter:          exporter.New(store.Batches(), store.Translations(), csvexporter.New()),
		Runner:            runner,
		Progress:          progress.New(store.Batches(), store.Translations()),
		Gateway:           gw,
		PollInterval:      poll,
		HeartbeatInterval: heartbeat,
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &fixture{store: store, runner: runner, srv: srv}
}

func (f *fixture) postJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(f.srv.URL+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (f *fixture) seedUploadAndBatch(t *testing.T) (uploadID, batchID int64) {
	t.Helper()
	resp := f.postJSON(t, "/uploads", map[string]any{
		"filename": "products.csv",
		"jobType":  "product_texts",
		"content":  "name,text\nBike,A red bike\nHelmet,A safe helmet\nBell,A loud bell\n",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	u := decode[domain.Upload](t, resp)

	resp = f.postJSON(t, fmt.Sprintf("/uploads/%d/batches", u.ID), map[string]any{"name": "all"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	b := decode[domain.Batch](t, resp)
	return u.ID, b.ID
}

func waitRunnerIdle(t *testing.T, f *fixture, batchID int64) {
	t.Helper()
	require.Eventually(t, func() bool { return !f.runner.Running(batchID) }, 5*time.Second, 5*time.Millisecond)
}

func TestUploadProcessExportFlow(t *testing.T) {
	f := newFixture(t)
	_, batchID := f.seedUploadAndBatch(t)

	resp := f.postJSON(t, fmt.Sprintf("/batches/%d/process", batchID), map[string]any{
		"optimize":    true,
		"targetLangs": []string{"da"},
	})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	accepted := decode[map[string]any](t, resp)
	require.EqualValues(t, 3, accepted["itemsCount"])
	waitRunnerIdle(t, f, batchID)

	resp, err := http.Get(fmt.Sprintf("%s/batches/%d", f.srv.URL, batchID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[struct {
		Progress progress.Snapshot `json:"progress"`
	}](t, resp)
	require.Equal(t, 3, body.Progress.Counts.Completed)

	resp, err = http.Get(fmt.Sprintf("%s/batches/%d/export", f.srv.URL, batchID))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
}

func TestProcessUnknownBatchIs404(t *testing.T) {
	f := newFixture(t)
	resp := f.postJSON(t, "/batches/999/process", map[string]any{"optimize": true})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestProcessInvalidLangIs400(t *testing.T) {
	f := newFixture(t)
	_, batchID := f.seedUploadAndBatch(t)
	resp := f.postJSON(t, fmt.Sprintf("/batches/%d/process", batchID), map[string]any{
		"targetLangs": []string{"no-such-lang-code!"},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestSelectedIndicesResolveToItems(t *testing.T) {
	f := newFixture(t)
	uploadID, batchID := f.seedUploadAndBatch(t)

	resp := f.postJSON(t, fmt.Sprintf("/batches/%d/process", batchID), map[string]any{
		"optimize":        true,
		"selectedIndices": []int{0, 2, 99},
	})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	accepted := decode[map[string]any](t, resp)
	// Out-of-range index 99 is dropped at the boundary.
	require.EqualValues(t, 2, accepted["itemsCount"])
	waitRunnerIdle(t, f, batchID)

	resp, err := http.Get(fmt.Sprintf("%s/uploads/%d/items", f.srv.URL, uploadID))
	require.NoError(t, err)
	items := decode[[]domain.Item](t, resp)
	require.Len(t, items, 3)
	require.Equal(t, domain.StatusCompleted, items[0].Status)
	require.Equal(t, domain.StatusPending, items[1].Status)
	require.Equal(t, domain.StatusCompleted, items[2].Status)
}

func TestCancelBatch(t *testing.T) {
	f := newFixture(t)
	_, batchID := f.seedUploadAndBatch(t)

	// Nothing is running yet, so there is nothing to cancel.
	resp := f.postJSON(t, fmt.Sprintf("/batches/%d/cancel", batchID), map[string]any{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]bool](t, resp)
	require.False(t, body["canceled"])

	resp = f.postJSON(t, "/batches/999/cancel", map[string]any{})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestHealthReportsBackend(t *testing.T) {
	f := newFixture(t)
	resp, err := http.Get(f.srv.URL + "/healthz")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	require.Equal(t, "ok", body["status"])
	require.Equal(t, "stub", body["mode"])
	require.Equal(t, "ok", body["backend"])
}

func TestDiagnosticsRewriteReportsMode(t *testing.T) {
	f := newFixture(t)
	resp := f.postJSON(t, "/diagnostics/rewrite", map[string]any{
		"name": "Bike", "text": "A red bike",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	require.Equal(t, "stub", body["mode"])
	require.NotEmpty(t, body["preview"])
}

func TestGlossaryRoundTrip(t *testing.T) {
	f := newFixture(t)
	resp := f.postJSON(t, "/glossary", map[string]any{
		"langCode": "da", "sourceTerm": "bike", "targetTerm": "cykel",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	term := decode[domain.GlossaryTerm](t, resp)
	require.NotZero(t, term.ID)

	resp, err := http.Get(f.srv.URL + "/glossary?lang=da")
	require.NoError(t, err)
	terms := decode[[]domain.GlossaryTerm](t, resp)
	require.Len(t, terms, 1)
	require.Equal(t, "cykel", terms[0].TargetTerm)

	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/glossary/%d", f.srv.URL, term.ID), nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, delResp.StatusCode)
	delResp.Body.Close()
}

func TestPatchItemEditsTranslation(t *testing.T) {
	f := newFixture(t)
	uploadID, _ := f.seedUploadAndBatch(t)

	resp, err := http.Get(fmt.Sprintf("%s/uploads/%d/items", f.srv.URL, uploadID))
	require.NoError(t, err)
	items := decode[[]domain.Item](t, resp)
	require.NotEmpty(t, items)

	req, err := http.NewRequest(http.MethodPatch,
		fmt.Sprintf("%s/items/%d", f.srv.URL, items[0].ID),
		bytes.NewReader([]byte(`{"translation":{"langCode":"da","text":"manuel tekst"}}`)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	patchResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, patchResp.StatusCode)
	patchResp.Body.Close()

	tr, err := f.store.Translations().Get(context.Background(), items[0].ID, "da")
	require.NoError(t, err)
	require.NotNil(t, tr)
	require.Equal(t, "manuel tekst", tr.Text)
}
