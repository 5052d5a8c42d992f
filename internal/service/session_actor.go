package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dom/draft-queue/internal/domain"
	"github.com/google/uuid"
)

type actorRequest struct {
	cmd   domain.Command
	reply chan actorReply
}

type actorReply struct {
	out domain.Outcome
	err error
}

// sessionActor owns one session. Every command runs on the actor goroutine,
// one at a time; nothing else touches the session.
type sessionActor struct {
	id      uuid.UUID
	variant domain.Variant
	created time.Time

	session *domain.Session
	inbox   chan actorRequest
	stop    chan struct{}
	done    chan struct{}

	stopOnce sync.Once
	// closed is set once subscribers have been told the session is over.
	closed atomic.Bool
}

func newSessionActor(session *domain.Session, created time.Time) *sessionActor {
	return &sessionActor{
		id:      session.ID,
		variant: session.Config.Variant,
		created: created,
		session: session,
		inbox:   make(chan actorRequest),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (a *sessionActor) run() {
	defer close(a.done)

	for {
		select {
		case <-a.stop:
			return
		case req := <-a.inbox:
			out, err := a.execute(req.cmd)
			req.reply <- actorReply{out: out, err: err}
		}
	}
}

// execute confines a panic to the command that caused it.
func (a *sessionActor) execute(cmd domain.Command) (out domain.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR [sessionActor.execute] session=%s cmd=%s: panic: %v", a.id, cmd.Kind, r)
			out, err = domain.Outcome{}, fmt.Errorf("%w: %v", domain.ErrInvariant, r)
		}
	}()
	return a.session.Execute(cmd)
}

func (a *sessionActor) submit(ctx context.Context, cmd domain.Command) (domain.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return domain.Outcome{}, err
	}
	reply := make(chan actorReply, 1)

	select {
	case a.inbox <- actorRequest{cmd: cmd, reply: reply}:
	case <-a.done:
		return domain.Outcome{}, ErrSessionNotFound
	case <-ctx.Done():
		return domain.Outcome{}, ctx.Err()
	}

	select {
	case r := <-reply:
		return r.out, r.err
	case <-ctx.Done():
		return domain.Outcome{}, ctx.Err()
	}
}

func (a *sessionActor) shutdown() {
	a.stopOnce.Do(func() { close(a.stop) })
	<-a.done
}
