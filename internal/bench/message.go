package bench

import (
	"encoding/binary"
	"hash"

	"github.com/valyala/fastrand"
	"golang.org/x/crypto/sha3"
)

// PayloadWords is the number of payload words after the sequence number.
const PayloadWords = 24

// Message is the value moved through every queue under test: 25 machine
// words with the sequence number first.
type Message struct {
	Seq     int64
	Payload [PayloadWords]int64
}

// seqBytes is the size of the Seq prefix of a Message.
const seqBytes = 8

// payloadSource fills message payloads with a deterministic pseudo-random
// stream seeded from the implementation name, so reruns push identical
// bytes.
type payloadSource struct {
	rng fastrand.RNG
}

func newPayloadSource(name string) *payloadSource {
	sum := sha3.Sum256([]byte(name))
	p := &payloadSource{}
	p.rng.Seed(binary.LittleEndian.Uint32(sum[:4]))
	return p
}

func (p *payloadSource) fill(m *Message) {
	for i := range m.Payload {
		m.Payload[i] = int64(p.rng.Uint32())<<32 | int64(p.rng.Uint32())
	}
}

// digest is a SHA3-256 hash over a message stream. With seqOnly, only the
// sequence numbers are hashed; use it for queues that do not carry the
// payload.
type digest struct {
	h       hash.Hash
	buf     [seqBytes * (PayloadWords + 1)]byte
	seqOnly bool
}

func newDigest(seqOnly bool) *digest {
	return &digest{h: sha3.New256(), seqOnly: seqOnly}
}

func (d *digest) add(m *Message) {
	b := binary.LittleEndian.AppendUint64(d.buf[:0], uint64(m.Seq))
	if !d.seqOnly {
		for _, w := range m.Payload {
			b = binary.LittleEndian.AppendUint64(b, uint64(w))
		}
	}
	d.h.Write(b)
}

func (d *digest) sum() []byte {
	return d.h.Sum(nil)
}
