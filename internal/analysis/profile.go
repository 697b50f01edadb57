package analysis

import "time"

// Profile is the read-only fact snapshot about the character being analyzed.
// It is assembled upstream (ESI, killboard, wallet export, alt detection) and
// handed to the engine fully or partially populated. Evaluators treat every
// absent optional section as "no signal", never as an error, and must not
// mutate the snapshot.
type Profile struct {
	CharacterID    int64   `json:"character_id"`
	CharacterName  string  `json:"character_name"`
	CorpID         int64   `json:"corp_id"`
	CorpName       string  `json:"corp_name"`
	AllianceID     int64   `json:"alliance_id,omitempty"`
	AllianceName   string  `json:"alliance_name,omitempty"`
	SecurityStatus float64 `json:"security_status"`
	AccountAgeDays int     `json:"account_age_days"`

	// CorpHistory is ordered most-recent-first; entry 0 is the current corp.
	CorpHistory []CorpMembership `json:"corp_history,omitempty"`

	CombatStats *CombatStats     `json:"combat_stats,omitempty"`
	Activity    *ActivitySummary `json:"activity,omitempty"`
	Assets      *AssetSummary    `json:"assets,omitempty"`

	// WalletJournal is ordered most-recent-first.
	WalletJournal []JournalEntry `json:"wallet_journal,omitempty"`

	Standings *StandingsData `json:"standings_data,omitempty"`

	SuspectedAlts []SuspectedAlt `json:"suspected_alts,omitempty"`
	DeclaredAlts  []string       `json:"declared_alts,omitempty"`
}

// CorpMembership is one stint in a corporation.
type CorpMembership struct {
	CorpID       int64      `json:"corp_id"`
	CorpName     string     `json:"corp_name"`
	Start        time.Time  `json:"start"`
	End          *time.Time `json:"end,omitempty"`
	DurationDays *int       `json:"duration_days,omitempty"`
	IsHostile    bool       `json:"is_hostile"`
	IsNPC        bool       `json:"is_npc"`
}

// CombatStats carries aggregate killboard counters.
type CombatStats struct {
	KillsTotal   int      `json:"kills_total"`
	Kills30D     int      `json:"kills_30d"`
	Kills90D     int      `json:"kills_90d"`
	DeathsTotal  int      `json:"deaths_total"`
	SoloKills    int      `json:"solo_kills"`
	AwoxKills    int      `json:"awox_kills"`
	ISKDestroyed float64  `json:"isk_destroyed"`
	ISKLost      float64  `json:"isk_lost"`
	TopShips     []string `json:"top_ships,omitempty"`   // most-used first
	TopRegions   []string `json:"top_regions,omitempty"` // most-active first
	DangerRatio  *float64 `json:"danger_ratio,omitempty"`
}

// ActivitySummary describes when and how often the character plays.
type ActivitySummary struct {
	PrimaryTimezone   string     `json:"primary_timezone,omitempty"`
	PeakHours         []int      `json:"peak_hours,omitempty"` // UTC hours 0-23, most-frequent first
	ActiveDaysPerWeek *float64   `json:"active_days_per_week,omitempty"`
	LastKillDate      *time.Time `json:"last_kill_date,omitempty"`
	LastLossDate      *time.Time `json:"last_loss_date,omitempty"`
	Trend             string     `json:"trend,omitempty"` // "stable", "declining", "inactive"
}

// AssetSummary describes what the character owns.
type AssetSummary struct {
	TotalValue     *float64 `json:"total_value,omitempty"` // ISK
	CapitalShips   int      `json:"capital_ships"`
	Supercapitals  int      `json:"supercapitals"`
	PrimaryRegions []string `json:"primary_regions,omitempty"`
	HasStructures  bool     `json:"has_structures"`
}

// JournalEntry is one wallet journal row.
type JournalEntry struct {
	ID            int64     `json:"id"`
	Date          time.Time `json:"date"`
	RefType       string    `json:"ref_type"`
	Amount        float64   `json:"amount"` // positive = incoming
	Balance       *float64  `json:"balance,omitempty"`
	FirstPartyID  *int64    `json:"first_party_id,omitempty"`
	SecondPartyID *int64    `json:"second_party_id,omitempty"`
}

// StandingsData is the raw standings/contacts pass-through blob.
type StandingsData struct {
	Standings []StandingEntry `json:"standings,omitempty"`
	Contacts  []ContactEntry  `json:"contacts,omitempty"`
}

// StandingEntry is one NPC or player entity standing.
type StandingEntry struct {
	EntityID   int64   `json:"entity_id"`
	EntityType string  `json:"entity_type"` // "corporation", "alliance", "character"
	Standing   float64 `json:"standing"`    // -10..+10
}

// ContactEntry is one entry from the character's contact list.
type ContactEntry struct {
	ContactID   int64   `json:"contact_id"`
	ContactType string  `json:"contact_type"`
	Standing    float64 `json:"standing"`
}

// SuspectedAlt is one alt-detection result. CorpID/AllianceID carry the
// suspected alt's current affiliation when the detector resolved it.
type SuspectedAlt struct {
	CharacterID int64   `json:"character_id"`
	Name        string  `json:"name"`
	Method      string  `json:"method"` // detection method tag
	Confidence  float64 `json:"confidence"`
	CorpID      int64   `json:"corp_id,omitempty"`
	AllianceID  int64   `json:"alliance_id,omitempty"`
}

// CurrentCorp returns the most recent corp membership, or nil when the
// history section is absent.
func (p *Profile) CurrentCorp() *CorpMembership {
	if len(p.CorpHistory) == 0 {
		return nil
	}
	return &p.CorpHistory[0]
}
