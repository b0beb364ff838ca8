package domain

// BackupAction is the kind of mutation a pending backup record will replay.
type BackupAction string

const (
	BackupCreate BackupAction = "create"
	BackupUpdate BackupAction = "update"
	BackupDelete BackupAction = "delete"
)

// Valid reports whether the action is one of the known values.
func (a BackupAction) Valid() bool {
	switch a {
	case BackupCreate, BackupUpdate, BackupDelete:
		return true
	}
	return false
}

// AccountBackup is a pending account mutation plus a snapshot of the account as
// it should look once the mutation is applied. At most one backup exists per
// account id; a newer intent overwrites the older one. IdempotencyKey is the
// key the first delivery attempt carried; every replay of this record sends the
// same key so the backend can deduplicate.
type AccountBackup struct {
	ID             int64
	Action         BackupAction
	IdempotencyKey string
	Account        Account
}

// CategoryBackup is a pending category mutation with its snapshot.
type CategoryBackup struct {
	ID             int64
	Action         BackupAction
	IdempotencyKey string
	Category       Category
}

// TransactionBackup is a pending transaction mutation with its snapshot.
type TransactionBackup struct {
	ID             int64
	Action         BackupAction
	IdempotencyKey string
	Transaction    Transaction
}
