package quiz

import (
	"strconv"
	"sync"
	"time"
)

// ID 标识测验、题目或选项。未保存的是本地临时ID，保存后是服务端ID，零值表示无ID。
type ID struct {
	value   int64
	pending bool
}

func Pending(token int64) ID {
	if token < 0 {
		token = -token
	}
	if token == 0 {
		return ID{}
	}
	return ID{value: token, pending: true}
}

func Persisted(id int64) ID {
	if id <= 0 {
		return ID{}
	}
	return ID{value: id}
}

// FromWire 把保存接口的有符号整数还原为 ID：负数是临时ID，正数是服务端ID
func FromWire(v int64) ID {
	switch {
	case v < 0:
		return Pending(-v)
	case v > 0:
		return Persisted(v)
	default:
		return ID{}
	}
}

func (id ID) Wire() int64 {
	if id.pending {
		return -id.value
	}
	return id.value
}

func (id ID) IsZero() bool      { return id.value == 0 }
func (id ID) IsPending() bool   { return id.pending && id.value != 0 }
func (id ID) IsPersisted() bool { return !id.pending && id.value > 0 }

// ServerID 返回服务端ID，未保存过时返回 false
func (id ID) ServerID() (int64, bool) {
	if id.IsPersisted() {
		return id.value, true
	}
	return 0, false
}

func (id ID) String() string {
	switch {
	case id.IsZero():
		return "none"
	case id.pending:
		return "pending:" + strconv.FormatInt(id.value, 10)
	default:
		return strconv.FormatInt(id.value, 10)
	}
}

// IDGenerator 基于时间戳生成临时ID，同一毫秒内的多次调用也不会重复
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

func (g *IDGenerator) Next() ID {
	g.mu.Lock()
	defer g.mu.Unlock()
	token := g.now().UnixMilli()
	if token <= g.last {
		token = g.last + 1
	}
	g.last = token
	return Pending(token)
}

var defaultIDs = NewIDGenerator(nil)

// NewPendingID 从进程级生成器取一个新的临时ID
func NewPendingID() ID {
	return defaultIDs.Next()
}
