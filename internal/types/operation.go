package types

const (
	OperationTransfer = "transfer"
	OperationDeposit  = "deposit"
	OperationApprove  = "approve"
)
