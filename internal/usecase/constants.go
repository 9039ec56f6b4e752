package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds settlement transactions.
	DefaultTransactionTimeout = 30 * time.Second

	// AccountSummaryCacheTTL bounds staleness of dashboard margin reads.
	AccountSummaryCacheTTL = 30 * time.Second
)
