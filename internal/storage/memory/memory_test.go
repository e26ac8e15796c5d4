package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/bugdash/bugdash/internal/storage"
	"github.com/bugdash/bugdash/internal/types"
)

func newTestProject(t *testing.T, s *Store, code, name string) *types.Project {
	t.Helper()
	p := &types.Project{Code: code, Name: name}
	if err := s.CreateProject(context.Background(), p); err != nil {
		t.Fatalf("CreateProject(%s) failed: %v", name, err)
	}
	return p
}

func TestClaimBugNumbersAdvancesPerProject(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := newTestProject(t, s, "01", "Alpha")
	b := newTestProject(t, s, "02", "Beta")

	base, err := s.ClaimBugNumbers(ctx, a.ID, 3)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if base != 1 {
		t.Errorf("first claim base = %d, want 1", base)
	}
	base, err = s.ClaimBugNumbers(ctx, a.ID, 2)
	if err != nil {
		t.Fatalf("second claim failed: %v", err)
	}
	if base != 4 {
		t.Errorf("second claim base = %d, want 4", base)
	}
	// Other projects keep their own counter
	base, err = s.ClaimBugNumbers(ctx, b.ID, 1)
	if err != nil {
		t.Fatalf("claim for second project failed: %v", err)
	}
	if base != 1 {
		t.Errorf("other project's base = %d, want 1", base)
	}
}

func TestCreateBugsBatchIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := newTestProject(t, s, "01", "Alpha")

	if _, err := s.CreateBugs(ctx, []*types.Bug{
		{ProjectID: p.ID, Number: 1, Title: "existing"},
	}); err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}

	// Second row collides with the seeded bug; the whole batch must fail
	// and the first row must not be stored.
	_, err := s.CreateBugs(ctx, []*types.Bug{
		{ProjectID: p.ID, Number: 2, Title: "fine"},
		{ProjectID: p.ID, Number: 1, Title: "collides"},
	})
	if !errors.Is(err, storage.ErrSequenceConflict) {
		t.Fatalf("batch error = %v, want ErrSequenceConflict", err)
	}
	if _, err := s.GetBugByNumber(ctx, p.ID, 2); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("row before the collision was stored; batch is not atomic")
	}
}

func TestCreateAttachmentsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := newTestProject(t, s, "01", "Alpha")
	ids, err := s.CreateBugs(ctx, []*types.Bug{{ProjectID: p.ID, Number: 1, Title: "bug"}})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	link := []*types.Attachment{{BugID: ids[0], Kind: types.AttachmentLink, URL: "https://drive.example/x"}}
	for i := 0; i < 2; i++ {
		if err := s.CreateAttachments(ctx, link); err != nil {
			t.Fatalf("attach pass %d failed: %v", i+1, err)
		}
	}
	got, err := s.GetAttachments(ctx, ids[0])
	if err != nil {
		t.Fatalf("GetAttachments failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("attachment count = %d after re-insert, want 1", len(got))
	}
}

func TestErrorInjection(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := newTestProject(t, s, "01", "Alpha")

	boom := errors.New("boom")
	s.CreateBugsErr = boom
	if _, err := s.CreateBugs(ctx, []*types.Bug{{ProjectID: p.ID, Number: 1, Title: "x"}}); !errors.Is(err, boom) {
		t.Errorf("CreateBugs error = %v, want injected error", err)
	}
	s.CreateBugsErr = nil

	s.ClaimErr = boom
	if _, err := s.ClaimBugNumbers(ctx, p.ID, 1); !errors.Is(err, boom) {
		t.Errorf("ClaimBugNumbers error = %v, want injected error", err)
	}
}

func TestDuplicateProject(t *testing.T) {
	s := New()
	newTestProject(t, s, "01", "Alpha")
	err := s.CreateProject(context.Background(), &types.Project{Code: "02", Name: "Alpha"})
	if !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("duplicate name error = %v, want ErrDuplicate", err)
	}
	err = s.CreateProject(context.Background(), &types.Project{Code: "01", Name: "Gamma"})
	if !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("duplicate code error = %v, want ErrDuplicate", err)
	}
}
