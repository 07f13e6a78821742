// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/bureau-foundation/bl2bank/lib/bank"
	"github.com/bureau-foundation/bl2bank/lib/savefile"
	"github.com/bureau-foundation/bl2bank/lib/sealed"
	"github.com/bureau-foundation/bl2bank/lib/version"
)

// openSave is a decoded container and how it was stored.
type openSave struct {
	path   string
	game   *savefile.SaveGame
	header savefile.Header
	sealed bool
}

// readSave reads and decodes the container at path, opening it with
// the configured identity when it is sealed.
func (r *runtime) readSave(path string) (*openSave, error) {
	data, err := savefile.ReadFile(path)
	if err != nil {
		return nil, err
	}

	isSealed := sealed.IsSealed(data)
	if isSealed {
		identity, err := r.identity()
		if err != nil {
			return nil, fmt.Errorf("%s is sealed: %w", path, err)
		}
		data, err = sealed.Open(data, identity)
		if err != nil {
			return nil, fmt.Errorf("opening sealed save %s: %w", path, err)
		}
	}

	header, err := savefile.ReadHeader(data)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	game, err := savefile.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	r.logger.Debug("save read",
		"path", path,
		"sealed", isSealed,
		"compression", header.Compression,
		"slots", len(game.BankSlots()),
	)
	return &openSave{path: path, game: game, header: header, sealed: isSealed}, nil
}

// writeSave encodes save.game and replaces the file, sealing it when
// save.sealed is set.
func (r *runtime) writeSave(save *openSave) error {
	compression, err := savefile.ParseCompression(r.config.Container.Compression)
	if err != nil {
		return err
	}

	save.game.SavedAt = r.env.Clock.Now()
	save.game.Writer = version.Writer()

	data, err := savefile.Marshal(save.game, savefile.Options{Compression: compression})
	if err != nil {
		return fmt.Errorf("encoding %s: %w", save.path, err)
	}

	if save.sealed {
		recipients, err := r.recipients()
		if err != nil {
			return fmt.Errorf("sealing %s: %w", save.path, err)
		}
		data, err = sealed.Seal(data, recipients)
		if err != nil {
			return fmt.Errorf("sealing %s: %w", save.path, err)
		}
	}

	if err := savefile.WriteFile(save.path, data); err != nil {
		return err
	}
	r.logger.Info("save written",
		"path", save.path,
		"sealed", save.sealed,
		"slots", len(save.game.BankSlots()),
		"bytes", len(data),
	)
	return nil
}

// loadBank loads the bank slots of save through the round-trip check.
func (r *runtime) loadBank(save *openSave) (*bank.Bank, error) {
	b := bank.New(bank.Options{IDs: r.ids, Logger: r.logger})
	if err := b.Load(save.game.BankSlots()); err != nil {
		return nil, fmt.Errorf("loading bank of %s: %w", save.path, err)
	}
	return b, nil
}

// viewBank reads the save at path and loads its bank without taking
// the lock. Saves are replaced atomically, so a reader always sees a
// whole file.
func (r *runtime) viewBank(path string) (*bank.Bank, *openSave, error) {
	save, err := r.readSave(path)
	if err != nil {
		return nil, nil, err
	}
	b, err := r.loadBank(save)
	if err != nil {
		return nil, nil, err
	}
	return b, save, nil
}

// updateBank applies mutate to the bank of the save at path and writes
// the result. The save is locked for the whole sequence. When mutate
// fails, nothing is written.
func (r *runtime) updateBank(ctx context.Context, path string, mutate func(*bank.Bank) error) error {
	return r.updateSave(ctx, path, func(save *openSave) error {
		b, err := r.loadBank(save)
		if err != nil {
			return err
		}
		if err := mutate(b); err != nil {
			return err
		}
		slots, err := b.Save()
		if err != nil {
			return fmt.Errorf("saving bank of %s: %w", path, err)
		}
		save.game.SetBankSlots(slots)
		return nil
	})
}

// updateSave applies change to the container at path under its lock
// and writes the result.
func (r *runtime) updateSave(ctx context.Context, path string, change func(*openSave) error) (err error) {
	lock, err := savefile.Lock(ctx, path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, lock.Unlock())
	}()

	save, err := r.readSave(path)
	if err != nil {
		return err
	}
	if err := change(save); err != nil {
		return err
	}
	return r.writeSave(save)
}

// identity returns the private key from the configured identity file.
func (r *runtime) identity() (string, error) {
	if r.config.Paths.Identity == "" {
		return "", errors.New("no identity file configured (paths.identity)")
	}
	return sealed.ReadIdentityFile(r.config.Paths.Identity)
}

// recipients returns the public keys a sealed save is encrypted to:
// the configured identity's own key followed by container.recipients.
func (r *runtime) recipients() ([]string, error) {
	identity, err := r.identity()
	if err != nil {
		return nil, err
	}
	self, err := sealed.RecipientOf(identity)
	if err != nil {
		return nil, err
	}
	return append([]string{self}, r.config.Container.Recipients...), nil
}
