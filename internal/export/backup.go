package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mmynk/mycese/internal/entitystore"
	"github.com/mmynk/mycese/internal/models"
)

// Backup is the JSON backup document.
type Backup struct {
	ExportedAt time.Time        `json:"exportedAt"`
	Users      []models.User    `json:"users"`
	Events     []models.Event   `json:"events"`
	Payments   []models.Payment `json:"payments"`
}

// BackupJSON encodes snap. Password hashes and reset tokens are stripped
// unless withCredentials is set, which is what a restorable backup needs.
func BackupJSON(snap entitystore.Snapshot, exportedAt time.Time, withCredentials bool) ([]byte, error) {
	b := Backup{
		ExportedAt: exportedAt,
		Users:      snap.Users,
		Events:     snap.Events,
		Payments:   snap.Payments,
	}
	if !withCredentials {
		b.Users = make([]models.User, len(snap.Users))
		for i, u := range snap.Users {
			b.Users[i] = u.Sanitized()
		}
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return data, nil
}

// ParseBackup decodes a backup document into a snapshot.
func ParseBackup(data []byte) (entitystore.Snapshot, error) {
	var b Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return entitystore.Snapshot{}, fmt.Errorf("failed to decode backup: %w", err)
	}
	return entitystore.Snapshot{Users: b.Users, Events: b.Events, Payments: b.Payments}, nil
}
