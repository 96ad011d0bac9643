package nakama

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"testing"

	"pickmydegree/internal/config"
	"pickmydegree/internal/domain"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

// fakeStorage is an in-memory storageAPI keyed by user, collection and key.
type fakeStorage struct {
	objects map[string]*runtime.StorageWrite
	writes  int
	err     error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string]*runtime.StorageWrite)}
}

func objectKey(userID, collection, key string) string {
	return userID + "/" + collection + "/" + key
}

func (f *fakeStorage) StorageRead(_ context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*api.StorageObject
	for _, r := range reads {
		if w, ok := f.objects[objectKey(r.UserID, r.Collection, r.Key)]; ok {
			out = append(out, &api.StorageObject{Collection: w.Collection, Key: w.Key, Value: w.Value})
		}
	}
	return out, nil
}

func (f *fakeStorage) StorageWrite(_ context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, w := range writes {
		f.objects[objectKey(w.UserID, w.Collection, w.Key)] = w
		f.writes++
	}
	return nil, nil
}

func (f *fakeStorage) StorageDelete(_ context.Context, deletes []*runtime.StorageDelete) error {
	if f.err != nil {
		return f.err
	}
	for _, d := range deletes {
		delete(f.objects, objectKey(d.UserID, d.Collection, d.Key))
	}
	return nil
}

func TestStateStoreAdapterRoundTrip(t *testing.T) {
	ctx := context.Background()
	nk := newFakeStorage()
	store := NewNakamaStateStoreAdapter(nk, noopLogger{}, "user1", "pick-my-degree-v1")

	if _, ok := store.Load(ctx); ok {
		t.Fatalf("empty storage reported a state")
	}
	store.Save(ctx, []byte(`{"phase":"rules"}`))

	w := nk.objects[objectKey("user1", StateCollection, "pick-my-degree-v1")]
	if w == nil {
		t.Fatalf("object not written")
	}
	if w.PermissionRead != runtime.STORAGE_PERMISSION_OWNER_READ || w.PermissionWrite != runtime.STORAGE_PERMISSION_OWNER_WRITE {
		t.Fatalf("permissions = %d/%d", w.PermissionRead, w.PermissionWrite)
	}
	if blob, ok := store.Load(ctx); !ok || string(blob) != `{"phase":"rules"}` {
		t.Fatalf("Load = %q, %v", blob, ok)
	}

	other := NewNakamaStateStoreAdapter(nk, noopLogger{}, "user2", "pick-my-degree-v1")
	if _, ok := other.Load(ctx); ok {
		t.Fatalf("user2 sees user1's state")
	}

	store.Clear(ctx)
	if _, ok := store.Load(ctx); ok {
		t.Fatalf("state present after Clear")
	}
}

func TestStateStoreAdapterSwallowsFailures(t *testing.T) {
	ctx := context.Background()
	nk := newFakeStorage()
	nk.err = errors.New("storage offline")
	store := NewNakamaStateStoreAdapter(nk, noopLogger{}, "user1", "k")

	store.Save(ctx, []byte(`{}`))
	store.Clear(ctx)
	if _, ok := store.Load(ctx); ok {
		t.Fatalf("failed read reported a state")
	}
}

func TestStateStoreAdapterRejectsInvalidJSON(t *testing.T) {
	ctx := context.Background()
	nk := newFakeStorage()
	store := NewNakamaStateStoreAdapter(nk, noopLogger{}, "user1", "k")
	store.Save(ctx, []byte(`{broken`))
	if _, ok := store.Load(ctx); ok {
		t.Fatalf("invalid JSON reported as present")
	}
}

// fakeInitializer records RPC registrations.
type fakeInitializer struct {
	runtime.Initializer
	rpcs map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error)
}

func (f *fakeInitializer) RegisterRpc(id string, fn func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error)) error {
	f.rpcs[id] = fn
	return nil
}

func TestRegisterRPCs(t *testing.T) {
	reg := &fakeInitializer{rpcs: make(map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error))}
	m := NewModule(config.Default(), testCatalog(4))
	if err := m.RegisterRPCs(reg); err != nil {
		t.Fatalf("RegisterRPCs: %v", err)
	}
	for _, id := range []string{
		RpcState, RpcReset, RpcGoToRules, RpcGoToWelcome, RpcGoToDonate, RpcStartNewGame,
		RpcRemoveCategory, RpcRestoreCategory, RpcCompleteCategories, RpcTogglePhase1,
		RpcUndoPhase1, RpcCompletePhase1, RpcResolvePhase2, RpcResolvePhase2Random,
		RpcResolveBracket, RpcRepairBracket, RpcCertificate,
	} {
		if reg.rpcs[id] == nil {
			t.Errorf("rpc %s not registered", id)
		}
	}
}

func TestApplyRuntimeEnv(t *testing.T) {
	cfg := config.Default()
	applyRuntimeEnv(&cfg, map[string]string{
		envStorageKey: "k2",
		envCertSecret: "s",
		envLocale:     "it",
	})
	if cfg.StorageKey != "k2" || cfg.CertificateSecret != "s" || cfg.DefaultLocale != "it" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.CertificateIssuer != config.Default().CertificateIssuer {
		t.Fatalf("unset key changed issuer: %q", cfg.CertificateIssuer)
	}
}

func testCatalog(n int) []domain.Degree {
	categories := []string{"STEM", "Arts"}
	out := make([]domain.Degree, n)
	for i := range out {
		out[i] = domain.Degree{
			ID:       string(rune('a' + i)),
			Category: categories[i%len(categories)],
			Name:     domain.LocalizedText{"en": "Degree " + string(rune('A'+i)), "it": "Laurea " + string(rune('A'+i))},
		}
	}
	return out
}

func seededModule(cfg config.GameConfig, n int) *Module {
	m := NewModule(cfg, testCatalog(n))
	seed := int64(0)
	m.newRand = func() *rand.Rand {
		seed++
		return rand.New(rand.NewSource(seed))
	}
	return m
}
