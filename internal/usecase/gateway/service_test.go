package gateway_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johan198205/lekia-translations-sub000/internal/adapters/db/memory"
	"github.com/johan198205/lekia-translations-sub000/internal/adapters/prompt"
	"github.com/johan198205/lekia-translations-sub000/internal/domain"
	"github.com/johan198205/lekia-translations-sub000/internal/ports"
	"github.com/johan198205/lekia-translations-sub000/internal/usecase/gateway"
)

type fakeBackend struct {
	reply string
	err   error
	calls int
}

func (f *fakeBackend) Generate(ctx context.Context, p ports.GenerateParams) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeBackend) Ping(ctx context.Context) error { return f.err }

func TestRewriteStubMode(t *testing.T) {
	svc := gateway.New(gateway.Config{Mode: gateway.ModeStub}, gateway.Deps{Prompt: prompt.New(nil)})

	res, err := svc.Rewrite(context.Background(), ports.Document{
		Name: "Bike", Text: "A red bike.", Attributes: map[string]string{"color": "red"},
	})
	require.NoError(t, err)
	assert.Equal(t, gateway.ModeStub, res.Mode)
	assert.Equal(t, "## Bike\n\nA red bike.\n\n- color: red", res.Text)

	// Same input, same output.
	res2, err := svc.Rewrite(context.Background(), ports.Document{
		Name: "Bike", Text: "A red bike.", Attributes: map[string]string{"color": "red"},
	})
	require.NoError(t, err)
	assert.Equal(t, res.Text, res2.Text)
}

func TestRewriteLiveFallsBackToStub(t *testing.T) {
	backend := &fakeBackend{err: errors.New("backend down")}
	svc := gateway.New(gateway.Config{Mode: gateway.ModeLive}, gateway.Deps{
		Live: backend, Prompt: prompt.New(nil),
	})

	res, err := svc.Rewrite(context.Background(), ports.Document{Name: "Bike", Text: "A red bike."})
	require.NoError(t, err)
	assert.Equal(t, 1, backend.calls)
	assert.Equal(t, gateway.ModeStub, res.Mode)
	assert.NotEmpty(t, res.Text)
}

func TestTranslateAppliesGlossaryThenGuard(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Glossary().Upsert(context.Background(), &domain.GlossaryTerm{
		LangCode: "da", SourceTerm: "car seat", TargetTerm: "autostol",
	}))

	// The backend hallucinates a heading and leaves a glossary term
	// untranslated; both must be fixed up.
	backend := &fakeBackend{reply: "# The car seat is safe"}
	svc := gateway.New(gateway.Config{Mode: gateway.ModeLive}, gateway.Deps{
		Live: backend, Prompt: prompt.New(nil), Glossary: store.Glossary(),
	})

	res, err := svc.Translate(context.Background(), "The car seat is safe", "da")
	require.NoError(t, err)
	assert.Equal(t, gateway.ModeLive, res.Mode)
	assert.Equal(t, "The autostol is safe", res.Text)
}

func TestTranslateStubIsIdentityPlusGlossary(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Glossary().Upsert(context.Background(), &domain.GlossaryTerm{
		LangCode: "da", SourceTerm: "stroller", TargetTerm: "klapvogn",
	}))
	svc := gateway.New(gateway.Config{Mode: gateway.ModeStub}, gateway.Deps{
		Prompt: prompt.New(nil), Glossary: store.Glossary(),
	})

	res, err := svc.Translate(context.Background(), "## Strollers\n\nThe stroller folds.", "da")
	require.NoError(t, err)
	assert.Equal(t, gateway.ModeStub, res.Mode)
	assert.Equal(t, "## Strollers\n\nThe klapvogn folds.", res.Text)
}

func TestModeReporting(t *testing.T) {
	stub := gateway.New(gateway.Config{Mode: gateway.ModeStub}, gateway.Deps{Prompt: prompt.New(nil)})
	assert.Equal(t, gateway.ModeStub, stub.Mode())

	// Live mode without a live client degrades to stub.
	noBackend := gateway.New(gateway.Config{Mode: gateway.ModeLive}, gateway.Deps{Prompt: prompt.New(nil)})
	assert.Equal(t, gateway.ModeStub, noBackend.Mode())

	live := gateway.New(gateway.Config{Mode: gateway.ModeLive}, gateway.Deps{
		Live: &fakeBackend{}, Prompt: prompt.New(nil),
	})
	assert.Equal(t, gateway.ModeLive, live.Mode())
}
