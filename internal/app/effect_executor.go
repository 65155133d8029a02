// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/wardnotes/internal/core/effects"
	"github.com/example/wardnotes/internal/ports/secondary"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place planned I/O happens.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect) error
}

// DefaultEffectExecutor implements EffectExecutor on a FileStore.
type DefaultEffectExecutor struct {
	store  secondary.FileStore
	logger *zap.Logger
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
func NewEffectExecutor(store secondary.FileStore, logger *zap.Logger) *DefaultEffectExecutor {
	return &DefaultEffectExecutor{store: store, logger: logger}
}

// Execute processes a slice of effects, executing each in sequence.
// It stops at the first failure.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) error {
	for _, eff := range effs {
		if err := e.executeOne(ctx, eff); err != nil {
			e.logger.Debug("effect failed", zap.String("type", eff.EffectType()), zap.Error(err))
			return fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err)
		}
	}
	return nil
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, eff effects.Effect) error {
	switch typed := eff.(type) {
	case effects.FileEffect:
		return e.executeFile(ctx, typed)
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func (e *DefaultEffectExecutor) executeFile(ctx context.Context, eff effects.FileEffect) error {
	switch eff.Operation {
	case effects.FileMkdir:
		return e.store.Mkdir(ctx, eff.Path)
	case effects.FileWrite:
		return e.store.WriteFile(ctx, eff.Path, eff.Content)
	case effects.FileRemove:
		return e.store.Remove(ctx, eff.Path)
	default:
		return fmt.Errorf("unknown file operation: %s", eff.Operation)
	}
}
