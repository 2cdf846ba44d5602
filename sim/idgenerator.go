package sim

import (
	"log"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
)

// An IDGenerator hands out unique IDs for messages, events, and tasks.
type IDGenerator interface {
	Generate() string
}

var (
	idGenLock   sync.Mutex
	idGenInUse  bool
	idGenerator IDGenerator
)

// UseSequentialIDGenerator selects deterministic, counter-based IDs. It must
// be called before the first ID is generated.
func UseSequentialIDGenerator() {
	setIDGenerator(&sequentialIDGenerator{})
}

// UseParallelIDGenerator selects xid-based IDs that are safe to generate from
// many goroutines, at the cost of determinism. It must be called before the
// first ID is generated.
func UseParallelIDGenerator() {
	setIDGenerator(parallelIDGenerator{})
}

func setIDGenerator(g IDGenerator) {
	idGenLock.Lock()
	defer idGenLock.Unlock()

	if idGenInUse {
		log.Panic("cannot change id generator type after using it")
	}

	idGenerator = g
	idGenInUse = true
}

// GetIDGenerator returns the generator in use, defaulting to the sequential
// one.
func GetIDGenerator() IDGenerator {
	idGenLock.Lock()
	defer idGenLock.Unlock()

	if !idGenInUse {
		idGenerator = &sequentialIDGenerator{}
		idGenInUse = true
	}

	return idGenerator
}

type sequentialIDGenerator struct {
	nextID uint64
}

func (g *sequentialIDGenerator) Generate() string {
	return strconv.FormatUint(atomic.AddUint64(&g.nextID, 1), 10)
}

type parallelIDGenerator struct{}

func (g parallelIDGenerator) Generate() string {
	return xid.New().String()
}
