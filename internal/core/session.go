package core

import (
	"sync/atomic"

	"github.com/screenx/screenx/internal/domain"
)

// memberSession implements MemberSession by pairing meta + transport.
// The meta pointer is swapped whole on presence updates, so a Member
// handed out by Meta is never written again; room snapshots may read
// it without holding the registry lock.
type memberSession struct {
	meta atomic.Pointer[domain.Member]
	conn SignalConnection
}

func NewMemberSession(meta *domain.Member, conn SignalConnection) MemberSession {
	ms := &memberSession{conn: conn}
	ms.meta.Store(meta)
	return ms
}

func (m *memberSession) Meta() *domain.Member        { return m.meta.Load() }
func (m *memberSession) SetMeta(meta *domain.Member) { m.meta.Store(meta) }
func (m *memberSession) Signal() SignalConnection    { return m.conn }
