package model

import "github.com/google/uuid"

// Counterparty is the joined opposite-side entity of a partnership. When
// the directory no longer knows the entity, Found is false and MissingID
// carries the dangling reference; callers must branch on Found instead of
// rendering blanks.
type Counterparty struct {
	Found        bool          `json:"found"`
	Professional *Professional `json:"professional,omitempty"`
	Clinic       *Clinic       `json:"clinic,omitempty"`
	MissingID    uuid.UUID     `json:"missing_id,omitempty"`
}

// AvailableEntry is an opposite-type entity with no live partnership
// involving the actor. Exactly one of Professional or Clinic is set,
// depending on the actor's role.
type AvailableEntry struct {
	Professional *Professional `json:"professional,omitempty"`
	Clinic       *Clinic       `json:"clinic,omitempty"`
}

// PendingEntry is an in-flight request joined with its counterparty.
// Actionable is true when the actor's own flag is still Pending, i.e. the
// approve/reject decision belongs to this actor.
type PendingEntry struct {
	Partnership  *Partnership `json:"partnership"`
	Counterparty Counterparty `json:"counterparty"`
	Actionable   bool         `json:"actionable"`
}

// PartnerEntry is an active partnership joined with its counterparty.
type PartnerEntry struct {
	Partnership  *Partnership `json:"partnership"`
	Counterparty Counterparty `json:"counterparty"`
}

// PartnershipViews partitions the universe of counterparties for one
// actor: every opposite-type entity lands in exactly one of the three
// lists. Counts are carried so the UI never derives empty states from the
// wrong list.
type PartnershipViews struct {
	Available      []AvailableEntry `json:"available"`
	Pending        []PendingEntry   `json:"pending"`
	Partners       []PartnerEntry   `json:"partners"`
	AvailableCount int              `json:"available_count"`
	PendingCount   int              `json:"pending_count"`
	PartnersCount  int              `json:"partners_count"`
}
