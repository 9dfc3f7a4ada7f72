package partnership

import (
	"encoding/binary"
	"hash/fnv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/consultapp/partner-api/internal/model"
	"github.com/consultapp/partner-api/pkg/metrics"
)

// Snapshot is the data a projection runs over: the full partnership set
// plus the directory's list of the opposite entity type. Exactly one of
// Professionals or Clinics is populated, depending on the actor's role.
type Snapshot struct {
	Partnerships  []*model.Partnership
	Professionals []*model.Professional
	Clinics       []*model.Clinic
}

// Projector derives the available/pending/partners views for an actor.
// Projection is pure; results are cached behind an explicit key derived
// from the snapshot content, so a changed snapshot can never serve a
// stale view.
type Projector struct {
	cache   *cache.Cache
	metrics *metrics.Metrics
}

func NewProjector(m *metrics.Metrics) *Projector {
	return &Projector{
		cache:   cache.New(time.Minute, 5*time.Minute),
		metrics: m,
	}
}

// Project partitions the opposite-type entities for the actor: every
// entity lands in exactly one of available, pending or partners. A
// non-empty query restricts each list to entities matching it.
func (pr *Projector) Project(role model.ActorRole, actorID uuid.UUID, query string, snap Snapshot) *model.PartnershipViews {
	q := strings.ToLower(strings.TrimSpace(query))

	key := snapshotKey(role, actorID, q, snap)
	if cached, ok := pr.cache.Get(key); ok {
		pr.metrics.ViewCacheHits.Inc()
		return cached.(*model.PartnershipViews)
	}
	pr.metrics.ViewCacheMisses.Inc()

	timer := prometheus.NewTimer(pr.metrics.ViewComputations)
	views := pr.compute(role, actorID, q, snap)
	timer.ObserveDuration()

	pr.cache.SetDefault(key, views)
	return views
}

func (pr *Projector) compute(role model.ActorRole, actorID uuid.UUID, q string, snap Snapshot) *model.PartnershipViews {
	professionals := make(map[uuid.UUID]*model.Professional, len(snap.Professionals))
	for _, p := range snap.Professionals {
		professionals[p.ID] = p
	}
	clinics := make(map[uuid.UUID]*model.Clinic, len(snap.Clinics))
	for _, c := range snap.Clinics {
		clinics[c.ID] = c
	}

	views := &model.PartnershipViews{
		Available: []model.AvailableEntry{},
		Pending:   []model.PendingEntry{},
		Partners:  []model.PartnerEntry{},
	}

	// Live partnerships involving the actor, keyed by counterparty. The
	// at-most-one-live-per-pair invariant makes this a plain map.
	occupied := make(map[uuid.UUID]bool)

	for _, p := range snap.Partnerships {
		if !p.Involves(role, actorID) || !p.Live() {
			continue
		}
		counterpartyID := p.CounterpartyID(role)
		occupied[counterpartyID] = true

		cp := join(role.Opposite(), counterpartyID, professionals, clinics)
		if !counterpartyMatches(q, cp) {
			continue
		}

		if p.Status() == model.StatusActive {
			views.Partners = append(views.Partners, model.PartnerEntry{
				Partnership:  p,
				Counterparty: cp,
			})
			continue
		}
		views.Pending = append(views.Pending, model.PendingEntry{
			Partnership:  p,
			Counterparty: cp,
			Actionable:   p.Flag(role) == model.ApprovalPending,
		})
	}

	if role == model.RoleClinic {
		for _, prof := range snap.Professionals {
			if occupied[prof.ID] {
				continue
			}
			if q != "" && !professionalMatches(q, prof) {
				continue
			}
			views.Available = append(views.Available, model.AvailableEntry{Professional: prof})
		}
	} else {
		for _, clinic := range snap.Clinics {
			if occupied[clinic.ID] {
				continue
			}
			if q != "" && !clinicMatches(q, clinic) {
				continue
			}
			views.Available = append(views.Available, model.AvailableEntry{Clinic: clinic})
		}
	}

	views.AvailableCount = len(views.Available)
	views.PendingCount = len(views.Pending)
	views.PartnersCount = len(views.Partners)
	return views
}

func join(oppositeRole model.ActorRole, id uuid.UUID, professionals map[uuid.UUID]*model.Professional, clinics map[uuid.UUID]*model.Clinic) model.Counterparty {
	if oppositeRole == model.RoleProfessional {
		if p, ok := professionals[id]; ok {
			return model.Counterparty{Found: true, Professional: p}
		}
	} else {
		if c, ok := clinics[id]; ok {
			return model.Counterparty{Found: true, Clinic: c}
		}
	}
	return model.Counterparty{Found: false, MissingID: id}
}

// counterpartyMatches applies the free-text filter to a joined entry. A
// missing counterparty has no searchable fields, so it only survives an
// empty query.
func counterpartyMatches(q string, cp model.Counterparty) bool {
	if q == "" {
		return true
	}
	if !cp.Found {
		return false
	}
	if cp.Professional != nil {
		return professionalMatches(q, cp.Professional)
	}
	return clinicMatches(q, cp.Clinic)
}

func professionalMatches(q string, p *model.Professional) bool {
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Specialty), q)
}

func clinicMatches(q string, c *model.Clinic) bool {
	return strings.Contains(strings.ToLower(c.FantasyName), q) ||
		strings.Contains(strings.ToLower(c.RegistrationNumber), q)
}

// snapshotKey fingerprints the snapshot content plus the actor and query.
// Per-record hashes are combined with XOR so the key is independent of
// list order.
func snapshotKey(role model.ActorRole, actorID uuid.UUID, q string, snap Snapshot) string {
	var acc uint64
	for _, p := range snap.Partnerships {
		acc ^= recordHash(p.ID, p.UpdatedAt.UnixNano())
	}
	for _, p := range snap.Professionals {
		acc ^= recordHash(p.ID, p.UpdatedAt.UnixNano())
	}
	for _, c := range snap.Clinics {
		acc ^= recordHash(c.ID, c.UpdatedAt.UnixNano())
	}

	h := fnv.New64a()
	h.Write([]byte(role))
	h.Write(actorID[:])
	h.Write([]byte(q))
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], acc)
	h.Write(buf[:])

	var out [8]byte
	binary.LittleEndian.PutUint64(out[:], h.Sum64())
	return string(out[:])
}

func recordHash(id uuid.UUID, version int64) uint64 {
	h := fnv.New64a()
	h.Write(id[:])
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(version))
	h.Write(buf[:])
	return h.Sum64()
}
