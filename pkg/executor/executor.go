package executor

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/deploydeck/deploydeck-backend/pkg/domain/entities"
)

// Job describes one unit of remote work: deploy a project to its server or
// install tooling on a host.
type Job struct {
	Kind       entities.TaskKind
	TargetID   string
	RecordID   uuid.UUID
	ProjectRef string
	Branch     string
}

// Reporter receives progress from an executor while a job runs. The progress
// writer satisfies it.
type Reporter interface {
	Step(ctx context.Context, percent int, step string, logLines ...string) error
}

// Executor performs the actual remote work (SSH commands, docker install,
// code checkout). Implementations live outside this control plane; the
// contract is the only thing the dispatcher depends on. CommitHash may be
// empty when the execution does not resolve one.
type Executor interface {
	Execute(ctx context.Context, job Job, rep Reporter) (commitHash string, err error)
}

// Func adapts a plain function to the Executor interface.
type Func func(ctx context.Context, job Job, rep Reporter) (string, error)

func (f Func) Execute(ctx context.Context, job Job, rep Reporter) (string, error) {
	return f(ctx, job, rep)
}

// SimStep is one scripted step of a simulated run.
type SimStep struct {
	Percent int
	Name    string
	Log     string
}

// Simulator walks a scripted step list, reporting each one. It backs local
// development and tests where no real SSH target exists.
type Simulator struct {
	Steps      []SimStep
	StepDelay  time.Duration
	CommitHash string
	Err        error
}

func (s *Simulator) Execute(ctx context.Context, _ Job, rep Reporter) (string, error) {
	for _, step := range s.Steps {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		if err := rep.Step(ctx, step.Percent, step.Name, step.Log); err != nil {
			return "", err
		}
		if s.StepDelay > 0 {
			time.Sleep(s.StepDelay)
		}
	}
	if s.Err != nil {
		return "", s.Err
	}
	return s.CommitHash, nil
}

// DefaultSimulator mirrors the stages of a plain git-pull deployment.
func DefaultSimulator() *Simulator {
	return &Simulator{
		Steps: []SimStep{
			{Percent: 10, Name: "Connecting to server", Log: "connecting over ssh"},
			{Percent: 30, Name: "Fetching repository", Log: "git fetch origin"},
			{Percent: 60, Name: "Building application", Log: "docker compose build"},
			{Percent: 90, Name: "Restarting services", Log: "docker compose up -d"},
		},
		CommitHash: "0000000000000000000000000000000000000000",
	}
}
