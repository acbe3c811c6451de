package reorder

import (
	"reflect"
	"testing"

	"tutorpress_backend/internal/quiz"
)

func options(titles ...string) []quiz.Option {
	out := make([]quiz.Option, len(titles))
	for i, title := range titles {
		out[i] = quiz.Option{
			ID:         quiz.Persisted(int64(100 + i)),
			Title:      title,
			Order:      i + 1,
			DataStatus: quiz.StatusNoChange,
		}
	}
	return out
}

func titles(opts []quiz.Option) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Title
	}
	return out
}

func orders(opts []quiz.Option) []int {
	out := make([]int, len(opts))
	for i, o := range opts {
		out[i] = o.Order
	}
	return out
}

func TestMoveRenumbers(t *testing.T) {
	in := options("A", "B", "C", "D")
	out, ok := Options(in, in[0].ID, in[2].ID)
	if !ok {
		t.Fatal("move rejected")
	}
	if got, want := titles(out), []string{"B", "C", "A", "D"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("titles = %v, want %v", got, want)
	}
	if got, want := orders(out), []int{1, 2, 3, 4}; !reflect.DeepEqual(got, want) {
		t.Fatalf("orders = %v", got)
	}
	for _, o := range out[:3] {
		if o.DataStatus != quiz.StatusUpdate {
			t.Errorf("%s status = %s", o.Title, o.DataStatus)
		}
	}
	if out[3].DataStatus != quiz.StatusNoChange {
		t.Errorf("unmoved D status = %s", out[3].DataStatus)
	}
	if in[0].Title != "A" || in[0].Order != 1 {
		t.Fatal("input slice mutated")
	}
}

func TestMoveKeepsNewStatus(t *testing.T) {
	in := options("A", "B")
	in[0].DataStatus = quiz.StatusNew
	out, _ := Options(in, in[0].ID, in[1].ID)
	if out[1].Title != "A" || out[1].DataStatus != quiz.StatusNew {
		t.Fatalf("got %+v", out[1])
	}
}

func TestRoundTripRestoresOrder(t *testing.T) {
	for n := 2; n <= 5; n++ {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				in := options("A", "B", "C", "D", "E")[:n]
				want := map[string]int{}
				for _, o := range in {
					want[o.Title] = o.Order
				}
				moved, ok := MoveIndex[quiz.Option](quiz.CloneOptions(in), i, j)
				if !ok {
					t.Fatalf("n=%d move %d->%d rejected", n, i, j)
				}
				back, _ := MoveIndex[quiz.Option](moved, j, i)
				got := map[string]int{}
				for _, o := range back {
					got[o.Title] = o.Order
				}
				if !reflect.DeepEqual(got, want) || !reflect.DeepEqual(titles(back), titles(in)) {
					t.Fatalf("n=%d %d->%d->%d: got %v", n, i, j, i, titles(back))
				}
			}
		}
	}
}

func TestMoveMissingID(t *testing.T) {
	in := options("A", "B")
	out, ok := Options(in, quiz.Persisted(999), in[0].ID)
	if ok {
		t.Fatal("expected rejection")
	}
	if !reflect.DeepEqual(out, in) {
		t.Fatalf("list changed: %+v", out)
	}
	if _, ok := MoveIndex[quiz.Option](in, 0, 5); ok {
		t.Fatal("out of range index accepted")
	}
}

func TestQuestionsAndIDs(t *testing.T) {
	qs := []quiz.Question{
		{ID: quiz.Persisted(1), Order: 1},
		{ID: quiz.Pending(42), Order: 2, DataStatus: quiz.StatusNew},
		{ID: quiz.Persisted(3), Order: 3},
	}
	out, ok := Questions(qs, qs[2].ID, qs[0].ID)
	if !ok {
		t.Fatal("move rejected")
	}
	if got := IDs[quiz.Question](out); !reflect.DeepEqual(got, []int64{3, 1}) {
		t.Fatalf("ids = %v", got)
	}
	if IndexOf[quiz.Question](out, quiz.Pending(42)) != 2 {
		t.Fatal("pending question not found at the end")
	}
}

func TestRenumberAfterRemoval(t *testing.T) {
	in := options("A", "B", "C")
	rest := Renumber[quiz.Option](append(quiz.CloneOptions(in[:1]), in[2]))
	if got := orders(rest); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("orders = %v", got)
	}
	if rest[0].DataStatus != quiz.StatusNoChange || rest[1].DataStatus != quiz.StatusUpdate {
		t.Fatalf("statuses = %s, %s", rest[0].DataStatus, rest[1].DataStatus)
	}
}
