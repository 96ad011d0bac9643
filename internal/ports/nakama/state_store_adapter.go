package nakama

import (
	"context"
	"encoding/json"

	"pickmydegree/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// StateCollection is the storage collection holding saved game states.
const StateCollection = "pickmydegree"

// storageAPI is the part of runtime.NakamaModule the state store needs.
type storageAPI interface {
	StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error)
	StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error)
	StorageDelete(ctx context.Context, deletes []*runtime.StorageDelete) error
}

// NakamaStateStoreAdapter keeps one user's game state in a Nakama storage object.
// Storage failures are logged and swallowed.
type NakamaStateStoreAdapter struct {
	nk     storageAPI
	logger runtime.Logger
	userID string
	key    string
}

// NewNakamaStateStoreAdapter creates a state store for userID under the given key.
func NewNakamaStateStoreAdapter(nk storageAPI, logger runtime.Logger, userID, key string) *NakamaStateStoreAdapter {
	return &NakamaStateStoreAdapter{nk: nk, logger: logger, userID: userID, key: key}
}

func (a *NakamaStateStoreAdapter) Load(ctx context.Context) ([]byte, bool) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{
		{Collection: StateCollection, Key: a.key, UserID: a.userID},
	})
	if err != nil {
		a.logger.Warn("StateStore [User:%s]: failed to read %s: %v", a.userID, a.key, err)
		return nil, false
	}
	for _, obj := range objects {
		if obj.GetKey() != a.key {
			continue
		}
		value := []byte(obj.GetValue())
		if !json.Valid(value) {
			a.logger.Warn("StateStore [User:%s]: stored %s is not valid JSON", a.userID, a.key)
			return nil, false
		}
		return value, true
	}
	return nil, false
}

func (a *NakamaStateStoreAdapter) Save(ctx context.Context, blob []byte) {
	_, err := a.nk.StorageWrite(ctx, []*runtime.StorageWrite{
		{
			Collection:      StateCollection,
			Key:             a.key,
			UserID:          a.userID,
			Value:           string(blob),
			PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_OWNER_WRITE,
		},
	})
	if err != nil {
		a.logger.Warn("StateStore [User:%s]: failed to write %s: %v", a.userID, a.key, err)
	}
}

func (a *NakamaStateStoreAdapter) Clear(ctx context.Context) {
	err := a.nk.StorageDelete(ctx, []*runtime.StorageDelete{
		{Collection: StateCollection, Key: a.key, UserID: a.userID},
	})
	if err != nil {
		a.logger.Warn("StateStore [User:%s]: failed to delete %s: %v", a.userID, a.key, err)
	}
}

var _ ports.StateStore = (*NakamaStateStoreAdapter)(nil)
