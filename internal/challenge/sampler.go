package challenge

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/ecotrack/internal/badge"
	"github.com/dukerupert/ecotrack/internal/day"
	"github.com/dukerupert/ecotrack/internal/model"
)

// DailyCount is how many challenges a user is offered per day.
const DailyCount = 3

// achievableWords mark a challenge as completable by logging activities.
var achievableWords = []string{
	"bike", "bicycle", "walk",
	"vegetarian", "vegan", "meat", "fish",
	"renewable", "recycle", "reuse", "upcycle",
	"commute", "carbon",
}

// Achievable reports whether c can be completed through the activity log,
// either because it backs a badge or because its title names a tracked
// activity.
func Achievable(c model.Challenge) bool {
	if badge.IsKey(strings.ToLower(c.KeyOrEmpty())) {
		return true
	}
	return containsAny(strings.ToLower(c.Title), achievableWords)
}

// Shuffler permutes n elements through swap.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// SeedFunc derives the shuffle seed for a user on a calendar day.
type SeedFunc func(userID int64, dayKey string) uint32

// Sampler picks a user's daily challenges. The zero value is not usable; use
// DefaultSampler or fill both fields.
type Sampler struct {
	Seed        SeedFunc
	NewShuffler func(seed uint32) Shuffler
}

// DefaultSampler seeds from SHA-256 and shuffles with PCG.
var DefaultSampler = Sampler{Seed: SHA256Seed, NewShuffler: NewPCGShuffler}

// SHA256Seed hashes "{userID}:{dayKey}" and takes the first four bytes of
// the digest as a big-endian uint32.
func SHA256Seed(userID int64, dayKey string) uint32 {
	sum := sha256.Sum256([]byte(strconv.FormatInt(userID, 10) + ":" + dayKey))
	return binary.BigEndian.Uint32(sum[:4])
}

type pcgShuffler struct {
	src *rand.PCG
}

// NewPCGShuffler returns a Fisher-Yates shuffler over a PCG source seeded
// with (seed, 0). The draw for position i is Uint64() % (i+1); this is pinned
// so orderings stay reproducible across Go releases.
func NewPCGShuffler(seed uint32) Shuffler {
	return pcgShuffler{src: rand.NewPCG(uint64(seed), 0)}
}

func (p pcgShuffler) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := int(p.src.Uint64() % uint64(i+1))
		swap(i, j)
	}
}

// Daily returns up to DailyCount challenges for userID on the UTC+8 day
// containing now. active is the active catalog ordered by id. The first
// shuffled challenge always leads; the rest come from achievable challenges
// first, then everything else, both in shuffled order.
func (s Sampler) Daily(active []model.Challenge, userID int64, now time.Time) []model.Challenge {
	pool := make([]model.Challenge, len(active))
	copy(pool, active)

	shuffler := s.NewShuffler(s.Seed(userID, day.Key(now)))
	shuffler.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	if len(pool) <= DailyCount {
		return pool
	}

	picked := make([]model.Challenge, 0, DailyCount)
	picked = append(picked, pool[0])
	rest := pool[1:]

	var others []model.Challenge
	for _, c := range rest {
		if len(picked) == DailyCount {
			break
		}
		if Achievable(c) {
			picked = append(picked, c)
		} else {
			others = append(others, c)
		}
	}
	for _, c := range others {
		if len(picked) == DailyCount {
			break
		}
		picked = append(picked, c)
	}
	return picked
}

// Daily samples with DefaultSampler.
func Daily(active []model.Challenge, userID int64, now time.Time) []model.Challenge {
	return DefaultSampler.Daily(active, userID, now)
}
