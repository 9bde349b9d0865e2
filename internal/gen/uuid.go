package gen

import (
	"fmt"

	"github.com/google/uuid"
)

// UUIDGenerator produces identifiers for transcription attempts.
type UUIDGenerator func() uuid.UUID

func UUID() UUIDGenerator {
	return func() uuid.UUID {
		return uuid.Must(uuid.NewRandom())
	}
}

// Sequence returns a generator that yields the given IDs in order. Used to
// make attempt IDs predictable in tests; it panics once the IDs run out so two
// attempts never share an ID.
func Sequence(ids ...uuid.UUID) UUIDGenerator {
	i := 0
	return func() uuid.UUID {
		if i >= len(ids) {
			panic(fmt.Sprintf("gen: sequence exhausted after %d IDs", len(ids)))
		}
		id := ids[i]
		i++
		return id
	}
}

func (g UUIDGenerator) Next() uuid.UUID {
	if g == nil {
		return uuid.Nil
	}

	return g()
}
