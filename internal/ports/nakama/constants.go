package nakama

// RPC ids, one per engine operation.
const (
	RpcState               = "pmd_state"
	RpcReset               = "pmd_reset"
	RpcGoToRules           = "pmd_go_to_rules"
	RpcGoToWelcome         = "pmd_go_to_welcome"
	RpcGoToDonate          = "pmd_go_to_donate"
	RpcStartNewGame        = "pmd_start_new_game"
	RpcRemoveCategory      = "pmd_remove_category"
	RpcRestoreCategory     = "pmd_restore_category"
	RpcCompleteCategories  = "pmd_complete_categories"
	RpcTogglePhase1        = "pmd_toggle_phase1"
	RpcUndoPhase1          = "pmd_undo_phase1"
	RpcCompletePhase1      = "pmd_complete_phase1"
	RpcResolvePhase2       = "pmd_resolve_phase2"
	RpcResolvePhase2Random = "pmd_resolve_phase2_random"
	RpcResolveBracket      = "pmd_resolve_bracket"
	RpcRepairBracket       = "pmd_repair_bracket"
	RpcCertificate         = "pmd_certificate"
)

// Nakama error codes (gRPC status codes).
const (
	codeInvalidArgument    = 3
	codeFailedPrecondition = 9
	codeInternal           = 13
	codeUnauthenticated    = 16
)
