// Copyright (c) 2026 Revenue Share Labs
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package config

import (
	"fmt"

	"github.com/revenue-share-labs/contracts-invoice/account"
	"github.com/revenue-share-labs/contracts-invoice/invoice"
)

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}
	if cfg.RegistryFile == "" {
		return ErrEmptyRegistryFile
	}

	if _, err := cfg.OwnerAddress(); err != nil {
		return err
	}
	if _, err := cfg.WalletAddress(); err != nil {
		return err
	}

	if cfg.PlatformFee > invoice.FeeDenominator {
		return fmt.Errorf("%w: %d > %d", ErrInvalidFee, cfg.PlatformFee, invoice.FeeDenominator)
	}

	return nil
}

// OwnerAddress parses the configured owner. The owner must be present and
// must not be the null address.
func (cfg Config) OwnerAddress() (account.Address, error) {
	if cfg.Owner == "" {
		return account.ZeroAddress, fmt.Errorf("%w: not set", ErrInvalidOwner)
	}
	addr, err := account.FromHex(cfg.Owner)
	if err != nil {
		return account.ZeroAddress, fmt.Errorf("%w: %v", ErrInvalidOwner, err)
	}
	if addr.IsZero() {
		return account.ZeroAddress, fmt.Errorf("%w: null address", ErrInvalidOwner)
	}
	return addr, nil
}

// WalletAddress parses the configured platform wallet. An empty value is
// valid and yields the null address: fees are retained, not transferred.
func (cfg Config) WalletAddress() (account.Address, error) {
	if cfg.PlatformWallet == "" {
		return account.ZeroAddress, nil
	}
	addr, err := account.FromHex(cfg.PlatformWallet)
	if err != nil {
		return account.ZeroAddress, fmt.Errorf("%w: %v", ErrInvalidWallet, err)
	}
	return addr, nil
}
