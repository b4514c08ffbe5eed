package config

// Config holds every operator-tunable setting for the HTLC ledger daemon.
// Safety-critical protocol behavior (state transitions, commitment checks)
// is not configurable; only margins, intervals, and surfaces are.
type Config struct {
	// Log Config
	LogLevel   int    `json:"log_level"`   // e.g., 0 = debug, 1 = info, etc.
	LogFormat  string `json:"log_format"`  // "json" or "console"
	LogSampler bool   `json:"log_sampler"` // if true, samples logs (e.g., 1 in 5)

	// Node Config
	NodeHome string `json:"node_home"` // Daemon home directory (default: ~/.htlcd)

	// Ledger Config
	OwnerAccount  string `json:"owner_account"`  // Account allowed to call admin operations
	ModuleAccount string `json:"module_account"` // Escrow account holding locked funds (default: htlc_module)
	NativeAssetID string `json:"native_asset_id"` // Identifier of the native value unit (default: native)

	// MinDeadlineMarginSeconds is the minimum distance between ledger time
	// and a new swap's deadline. Deadlines closer than this are rejected.
	MinDeadlineMarginSeconds int `json:"min_deadline_margin_seconds"`

	// AllowCommitmentReuse relaxes commitment uniqueness to active-only.
	// When false (the default) a commitment ever seen on a terminal record
	// is rejected too, closing the replay vector across sequential swaps.
	AllowCommitmentReuse bool `json:"allow_commitment_reuse"`

	// PayoutIntervalSeconds is how often the payout worker scans for
	// pending settlement jobs (default: 5).
	PayoutIntervalSeconds int `json:"payout_interval_seconds"`

	// Query Server Config
	QueryServerPort int `json:"query_server_port"` // Port for HTTP query server (default: 8080)
}
