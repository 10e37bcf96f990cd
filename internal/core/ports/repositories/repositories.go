package repositories

// LedgerReader combines every read operation of the ledger store.
// Reads outside a transaction observe committed data only.
type LedgerReader interface {
	AccountReader
	JournalReader
	LedgerEntryReader
	PeriodReader
	WorkflowReader
	ApprovalReader
	NotificationReader
	AuditReader
}

// LedgerTx is the view of the store inside RunInTx.
type LedgerTx interface {
	LedgerReader
	AccountWriter
	JournalWriter
	LedgerEntryWriter
	PeriodWriter
	PeriodLocker
	WorkflowWriter
	ApprovalWriter
	NotificationWriter
	AuditWriter
}

// LedgerStore is the durable store the services depend on.
type LedgerStore interface {
	LedgerReader
	TransactionManager
	NotificationOutbox
}
