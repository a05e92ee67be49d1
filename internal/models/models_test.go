package models

import (
	"encoding/json"
	"testing"
)

func TestTaskChanges(t *testing.T) {
	t.Run("JSON omits unset fields", func(t *testing.T) {
		data, err := json.Marshal(CompletedChange(false))
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if string(data) != `{"completed":false}` {
			t.Errorf("unexpected JSON %s", data)
		}

		data, err = json.Marshal(ContentChange("Buy milk", ""))
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if string(data) != `{"title":"Buy milk","description":""}` {
			t.Errorf("unexpected JSON %s", data)
		}
	})

	t.Run("Apply", func(t *testing.T) {
		task := Task{ID: "t1", Title: "old", Description: "d"}
		got := CompletedChange(true).Apply(task)
		if !got.Completed || got.Title != "old" || got.Description != "d" {
			t.Errorf("unexpected result %+v", got)
		}

		got = ContentChange("new", "").Apply(task)
		if got.Title != "new" || got.Description != "" || got.Completed {
			t.Errorf("unexpected result %+v", got)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		blank := "  "
		if err := (TaskChanges{Title: &blank}).Validate(); err == nil {
			t.Error("expected blank title to be rejected")
		}
		if err := CompletedChange(true).Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if !(TaskChanges{}).Empty() {
			t.Error("zero value should be empty")
		}
	})
}

func TestTaskInput(t *testing.T) {
	in := TaskInput{Title: "  Buy milk ", Description: " 2L  "}.Normalize()
	if in.Title != "Buy milk" || in.Description != "2L" {
		t.Errorf("unexpected normalized input %+v", in)
	}
	if err := (TaskInput{Title: " "}).Validate(); err == nil {
		t.Error("expected error for blank title")
	}
}

func TestUserDisplayName(t *testing.T) {
	if got := (User{Email: "a@b.com"}).DisplayName(); got != "a@b.com" {
		t.Errorf("DisplayName() = %s", got)
	}
	if got := (User{Email: "a@b.com", Name: "Ana"}).DisplayName(); got != "Ana" {
		t.Errorf("DisplayName() = %s", got)
	}
}
