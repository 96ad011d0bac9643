package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"time"

	"pickmydegree/internal/app"
	"pickmydegree/internal/config"
	"pickmydegree/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// rpcRequest is the union of every RPC payload. Unused fields are ignored.
type rpcRequest struct {
	Category   string `json:"category"`
	ID         string `json:"id"`
	PlayerName string `json:"playerName"`
	Locale     string `json:"locale"`
}

// rpcResponse is returned by every game RPC.
type rpcResponse struct {
	Result      *app.Result      `json:"result,omitempty"`
	State       domain.GameState `json:"state"`
	Progress    app.Progress     `json:"progress"`
	Events      []app.Event      `json:"events"`
	Kept        *domain.Degree   `json:"kept,omitempty"`
	Repaired    *bool            `json:"repaired,omitempty"`
	Certificate string           `json:"certificate,omitempty"`
}

type operation func(ctx context.Context, e *app.Engine, req rpcRequest, resp *rpcResponse) error

// Module serves the game RPCs. Each call builds an Engine over the caller's storage object.
type Module struct {
	cfg     config.GameConfig
	catalog []domain.Degree
	certs   *app.CertificateService
	newRand func() *rand.Rand
}

// NewModule creates the RPC module for a catalog.
func NewModule(cfg config.GameConfig, catalog []domain.Degree) *Module {
	m := &Module{
		cfg:     cfg,
		catalog: catalog,
		newRand: func() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) },
	}
	if cfg.CertificatesEnabled() {
		m.certs = app.NewCertificateService(cfg.CertificateSecret, cfg.CertificateIssuer)
	}
	return m
}

// RegisterRPCs registers one Nakama RPC per engine operation.
func (m *Module) RegisterRPCs(initializer runtime.Initializer) error {
	for id := range m.operations() {
		err := initializer.RegisterRpc(id, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
			return m.call(ctx, logger, nk, id, payload)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *Module) operations() map[string]operation {
	return map[string]operation{
		RpcState: func(context.Context, *app.Engine, rpcRequest, *rpcResponse) error { return nil },
		RpcReset: func(ctx context.Context, e *app.Engine, _ rpcRequest, _ *rpcResponse) error {
			e.ResetGame(ctx)
			return nil
		},
		RpcGoToRules: func(ctx context.Context, e *app.Engine, _ rpcRequest, _ *rpcResponse) error {
			e.GoToRules(ctx)
			return nil
		},
		RpcGoToWelcome: func(ctx context.Context, e *app.Engine, _ rpcRequest, _ *rpcResponse) error {
			e.GoToWelcome(ctx)
			return nil
		},
		RpcGoToDonate: func(ctx context.Context, e *app.Engine, _ rpcRequest, _ *rpcResponse) error {
			e.GoToDonate(ctx)
			return nil
		},
		RpcStartNewGame: func(ctx context.Context, e *app.Engine, _ rpcRequest, _ *rpcResponse) error {
			e.StartNewGame(ctx)
			return nil
		},
		RpcRemoveCategory: func(ctx context.Context, e *app.Engine, req rpcRequest, _ *rpcResponse) error {
			if req.Category == "" {
				return runtime.NewError("category is required", codeInvalidArgument)
			}
			e.RemoveCategory(ctx, req.Category)
			return nil
		},
		RpcRestoreCategory: func(ctx context.Context, e *app.Engine, req rpcRequest, resp *rpcResponse) error {
			if req.Category == "" {
				return runtime.NewError("category is required", codeInvalidArgument)
			}
			resp.setResult(e.RestoreCategory(ctx, req.Category))
			return nil
		},
		RpcCompleteCategories: func(ctx context.Context, e *app.Engine, _ rpcRequest, resp *rpcResponse) error {
			resp.setResult(e.CompleteCategories(ctx))
			return nil
		},
		RpcTogglePhase1: func(ctx context.Context, e *app.Engine, req rpcRequest, resp *rpcResponse) error {
			if req.ID == "" {
				return runtime.NewError("id is required", codeInvalidArgument)
			}
			resp.setResult(e.TogglePhase1Selection(ctx, req.ID))
			return nil
		},
		RpcUndoPhase1: func(ctx context.Context, e *app.Engine, _ rpcRequest, resp *rpcResponse) error {
			resp.setResult(e.UndoPhase1(ctx))
			return nil
		},
		RpcCompletePhase1: func(ctx context.Context, e *app.Engine, _ rpcRequest, resp *rpcResponse) error {
			resp.setResult(e.CompletePhase1(ctx))
			return nil
		},
		RpcResolvePhase2: func(ctx context.Context, e *app.Engine, req rpcRequest, resp *rpcResponse) error {
			if req.ID == "" {
				return runtime.NewError("id is required", codeInvalidArgument)
			}
			resp.setResult(e.ResolvePhase2Match(ctx, req.ID))
			return nil
		},
		RpcResolvePhase2Random: func(ctx context.Context, e *app.Engine, _ rpcRequest, resp *rpcResponse) error {
			kept, res := e.ResolvePhase2MatchRandomly(ctx)
			resp.setResult(res)
			if res.Success {
				resp.Kept = &kept
			}
			return nil
		},
		RpcResolveBracket: func(ctx context.Context, e *app.Engine, req rpcRequest, resp *rpcResponse) error {
			if req.ID == "" {
				return runtime.NewError("id is required", codeInvalidArgument)
			}
			resp.setResult(e.ResolveBracketMatch(ctx, req.ID))
			return nil
		},
		RpcRepairBracket: func(ctx context.Context, e *app.Engine, _ rpcRequest, resp *rpcResponse) error {
			repaired := e.RepairBracketState(ctx)
			resp.Repaired = &repaired
			return nil
		},
		RpcCertificate: m.certificate,
	}
}

func (m *Module) certificate(_ context.Context, e *app.Engine, req rpcRequest, resp *rpcResponse) error {
	if m.certs == nil {
		return runtime.NewError("Certificates are not configured", codeFailedPrecondition)
	}
	locale := req.Locale
	if locale == "" {
		locale = m.cfg.DefaultLocale
	}
	token, err := m.certs.IssueFor(e, req.PlayerName, locale, time.Now())
	if errors.Is(err, app.ErrNoWinner) {
		return runtime.NewError("No winner decided yet", codeFailedPrecondition)
	}
	if err != nil {
		return err
	}
	resp.Certificate = token
	return nil
}

func (resp *rpcResponse) setResult(res app.Result) {
	resp.Result = &res
}

// call runs one operation for the calling user and encodes the response.
func (m *Module) call(ctx context.Context, logger runtime.Logger, nk storageAPI, id, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("User not authenticated", codeUnauthenticated)
	}
	op, ok := m.operations()[id]
	if !ok {
		return "", runtime.NewError("Unknown operation", codeInvalidArgument)
	}

	var req rpcRequest
	if strings.TrimSpace(payload) != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("Invalid payload", codeInvalidArgument)
		}
	}

	store := NewNakamaStateStoreAdapter(nk, logger, userID, m.cfg.StorageKey)
	engine := app.NewEngine(store, m.catalog, m.newRand())
	engine.Init(ctx)

	resp := rpcResponse{}
	if err := op(ctx, engine, req, &resp); err != nil {
		var rtErr *runtime.Error
		if errors.As(err, &rtErr) {
			return "", err
		}
		logger.Error("%s [User:%s]: %v", id, userID, err)
		return "", runtime.NewError("Internal error", codeInternal)
	}
	if resp.Result != nil && !resp.Result.Success {
		logger.Info("%s [User:%s]: refused: %s", id, userID, resp.Result.Message)
	}

	resp.State = engine.State()
	resp.Progress = engine.Progress()
	resp.Events = engine.DrainEvents()
	for _, ev := range resp.Events {
		logger.Debug("%s [User:%s]: event %s", id, userID, ev.Kind)
	}
	if resp.Events == nil {
		resp.Events = []app.Event{}
	}

	b, err := json.Marshal(resp)
	if err != nil {
		logger.Error("%s [User:%s]: failed to encode response: %v", id, userID, err)
		return "", runtime.NewError("Internal error", codeInternal)
	}
	return string(b), nil
}
