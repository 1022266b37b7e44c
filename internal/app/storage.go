package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"mathquest/internal/domain"
)

// Storage is the durable keyed store backing the content and progress stores.
// Implementations live under internal/infra (memory, file, redis, postgres).
type Storage interface {
	// Load returns the blob saved under key; ok is false when nothing was saved yet.
	Load(ctx context.Context, key string) (data []byte, ok bool, err error)
	Save(ctx context.Context, key string, data []byte) error
}

// CorruptPolicy decides what happens when a persisted blob cannot be decoded.
type CorruptPolicy string

const (
	// OnCorruptReseed logs the problem and replaces the blob with the default value.
	OnCorruptReseed CorruptPolicy = "reseed"
	// OnCorruptFail surfaces domain.ErrCorruptData to the caller.
	OnCorruptFail CorruptPolicy = "fail"
)

// ParseCorruptPolicy maps a config value onto a policy, defaulting to reseed.
func ParseCorruptPolicy(raw string) (CorruptPolicy, error) {
	switch raw {
	case "", string(OnCorruptReseed):
		return OnCorruptReseed, nil
	case string(OnCorruptFail):
		return OnCorruptFail, nil
	default:
		return "", fmt.Errorf("unknown corrupt data policy %q", raw)
	}
}

// Options carries the dependencies shared by the stores.
type Options struct {
	Logger    *slog.Logger
	OnCorrupt CorruptPolicy
	Now       func() time.Time
	Badges    *domain.BadgeCatalog
	// ReadOnly stops loading from writing seeds or repaired blobs back to storage.
	ReadOnly bool
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.OnCorrupt == "" {
		o.OnCorrupt = OnCorruptReseed
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Badges == nil {
		o.Badges = domain.DefaultBadges()
	}
	return o
}

// loadOrSeed decodes the blob under key, or persists and returns seed when the key is
// absent (or corrupt under the reseed policy). When salvage is set, a corrupt blob is first
// handed to it, and whatever it recovers replaces the blob instead of seed.
func loadOrSeed[T any](ctx context.Context, storage Storage, key string, seed T, opts Options, salvage func([]byte) (T, bool)) (T, error) {
	var zero T
	raw, ok, err := storage.Load(ctx, key)
	if err != nil {
		return zero, fmt.Errorf("load %s: %w", key, err)
	}
	if ok {
		var out T
		err := decodeBlob(key, raw, &out)
		if err == nil {
			return out, nil
		}
		if opts.OnCorrupt == OnCorruptFail {
			return zero, err
		}
		if salvage != nil {
			if recovered, ok := salvage(raw); ok {
				opts.Logger.Warn("repairing corrupt blob", "key", key, "error", err)
				seed = recovered
			} else {
				opts.Logger.Warn("reseeding corrupt blob", "key", key, "error", err)
			}
		} else {
			opts.Logger.Warn("reseeding corrupt blob", "key", key, "error", err)
		}
	}
	if opts.ReadOnly {
		return seed, nil
	}
	if err := saveBlob(ctx, storage, key, seed); err != nil {
		return zero, err
	}
	return seed, nil
}

func saveBlob(ctx context.Context, storage Storage, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := storage.Save(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
