package gacha

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// RandomSource 是所有抽取与次级判定所使用的随机源。
// Float64 返回 [0, 1) 区间内的均匀分布值。
type RandomSource interface {
	Float64() float64
}

// cryptoRNG 是默认的随机源
type cryptoRNG struct{}

func (cryptoRNG) Float64() float64 {
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		return rand.Float64()
	}
	// 取高53位
	u := binary.BigEndian.Uint64(buf[:]) >> 11
	return float64(u) / (1 << 53)
}

// DefaultRNG 返回基于 crypto/rand 的随机源，可被多个goroutine共享。
func DefaultRNG() RandomSource { return cryptoRNG{} }

// seededRNG 是可复现的随机源，用于模拟与测试。
type seededRNG struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededRNG 创建一个以 seed 初始化的可复现随机源。
func NewSeededRNG(seed uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// Sequence 按顺序返回预先给定的值，用完后从头循环。
// 测试通过它精确控制每一次判定走哪个分支。
type Sequence struct {
	values []float64
	next   int
}

// NewSequence 创建一个固定序列随机源，values 不能为空。
func NewSequence(values ...float64) *Sequence {
	if len(values) == 0 {
		panic("gacha: NewSequence 需要至少一个值")
	}
	return &Sequence{values: values}
}

func (s *Sequence) Float64() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// Consumed 返回已经读取的次数。
func (s *Sequence) Consumed() int { return s.next }

// Chance 以概率 p 返回 true。p<=0 永不命中且不消耗随机数，p>=1 必定命中。
func Chance(p float64, rng RandomSource) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return rng.Float64() < p
}
