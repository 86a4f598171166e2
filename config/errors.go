// Copyright (c) 2026 Revenue Share Labs
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrEmptyRegistryFile indicates the registry file name is empty.
	ErrEmptyRegistryFile = errors.New("config: registry file must not be empty")

	// ErrInvalidOwner indicates the owner is missing or not a valid
	// non-null address.
	ErrInvalidOwner = errors.New("config: invalid owner address")

	// ErrInvalidWallet indicates the platform wallet is not a valid address.
	ErrInvalidWallet = errors.New("config: invalid platform wallet address")

	// ErrInvalidFee indicates the platform fee exceeds 100%.
	ErrInvalidFee = errors.New("config: platform fee exceeds denominator")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")
)
