package flow

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rippled-monitor/monitor-ctl/internal/errors"
	"github.com/rippled-monitor/monitor-ctl/internal/port"
)

func appendAssignment(name string, p int) StepFunc {
	return func(ctx context.Context, s Session) (Session, Move, error) {
		s.Assignments = append(append([]port.Assignment(nil), s.Assignments...), port.Assignment{Service: name, Port: p})
		return s, Next, nil
	}
}

func TestRun_Forward(t *testing.T) {
	c := New(
		Step{Name: "a", Run: appendAssignment("a", 1)},
		Step{Name: "b", Run: appendAssignment("b", 2)},
	)

	s, err := c.Run(context.Background(), Session{})
	require.NoError(t, err)
	require.Len(t, s.Assignments, 2)
	assert.Equal(t, "b", s.Assignments[1].Service)
}

func TestRun_BackRestoresSession(t *testing.T) {
	visits := map[string]int{}
	var seenOnReturn []port.Assignment

	c := New(
		Step{Name: "first", Run: func(ctx context.Context, s Session) (Session, Move, error) {
			visits["first"]++
			if visits["first"] == 2 {
				seenOnReturn = s.Assignments
			}
			return s.Warn(errors.Warnf(errors.KindAmbiguous, "first %d", visits["first"])), Next, nil
		}},
		Step{Name: "second", Run: func(ctx context.Context, s Session) (Session, Move, error) {
			visits["second"]++
			s.Assignments = []port.Assignment{{Service: "x", Port: 1}}
			if visits["second"] == 1 {
				return s, Back, nil
			}
			return s, Next, nil
		}},
	)

	s, err := c.Run(context.Background(), Session{})
	require.NoError(t, err)

	assert.Equal(t, 2, visits["first"])
	assert.Equal(t, 2, visits["second"])
	assert.Empty(t, seenOnReturn, "going back must drop the later step's changes")
	require.Len(t, s.Warnings, 1)
	assert.Equal(t, "first 2", s.Warnings[0].Message)
}

func TestRun_BackFromFirstCancels(t *testing.T) {
	c := New(Step{Name: "review", Run: func(ctx context.Context, s Session) (Session, Move, error) {
		return s, Back, nil
	}})

	_, err := c.Run(context.Background(), Session{})
	assert.True(t, errors.IsKind(err, errors.KindCancelled))
	assert.Contains(t, err.Error(), "review")
}

func TestRun_Repeat(t *testing.T) {
	calls := 0
	c := New(Step{Name: "prompt", Run: func(ctx context.Context, s Session) (Session, Move, error) {
		calls++
		if calls < 3 {
			return s, Repeat, nil
		}
		s.Confirmed = true
		return s, Next, nil
	}})

	s, err := c.Run(context.Background(), Session{})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.True(t, s.Confirmed)
}

func TestRun_Finish(t *testing.T) {
	ran := false
	c := New(
		Step{Name: "a", Run: func(ctx context.Context, s Session) (Session, Move, error) {
			s.Confirmed = true
			return s, Finish, nil
		}},
		Step{Name: "b", Run: func(ctx context.Context, s Session) (Session, Move, error) {
			ran = true
			return s, Next, nil
		}},
	)

	s, err := c.Run(context.Background(), Session{})
	require.NoError(t, err)
	assert.True(t, s.Confirmed)
	assert.False(t, ran)
}

func TestRun_StepError(t *testing.T) {
	boom := fmt.Errorf("boom")
	c := New(
		Step{Name: "a", Run: appendAssignment("a", 1)},
		Step{Name: "b", Run: func(ctx context.Context, s Session) (Session, Move, error) {
			return s, Next, boom
		}},
	)

	s, err := c.Run(context.Background(), Session{})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, s.Assignments, 1, "session from the last completed step is returned")
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(Step{Name: "detect", Run: appendAssignment("a", 1)})
	_, err := c.Run(ctx, Session{})
	assert.True(t, errors.IsKind(err, errors.KindCancelled))
}

func TestRun_NoSteps(t *testing.T) {
	s, err := New().Run(context.Background(), Session{Confirmed: true})
	require.NoError(t, err)
	assert.True(t, s.Confirmed)
}

func TestSessionWarnDoesNotAlias(t *testing.T) {
	base := Session{}.Warn(errors.Warnf(errors.KindAmbiguous, "one"))
	a := base.Warn(errors.Warnf(errors.KindAmbiguous, "a"))
	b := base.Warn(errors.Warnf(errors.KindAmbiguous, "b"))

	assert.Len(t, base.Warnings, 1)
	assert.Equal(t, "a", a.Warnings[1].Message)
	assert.Equal(t, "b", b.Warnings[1].Message)
}

func TestMoveString(t *testing.T) {
	assert.Equal(t, "next", Next.String())
	assert.Equal(t, "back", Back.String())
	assert.Equal(t, "repeat", Repeat.String())
	assert.Equal(t, "finish", Finish.String())
}
