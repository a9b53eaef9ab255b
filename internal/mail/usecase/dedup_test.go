package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func rawMessage(from string) []byte {
	return []byte("From: " + from + "\r\nSubject: hello\r\n\r\nbody\r\n")
}

func TestDeduplicateLastListedWins(t *testing.T) {
	messages := map[uint32][]byte{
		1: rawMessage("Jane <jane@acme.com>"),
		2: rawMessage("Bob <bob@example.org>"),
		3: rawMessage("Jane <jane@acme.com>"),
		4: rawMessage("Carol <carol@example.org>"),
	}
	fetch := func(uid uint32) ([]byte, error) { return messages[uid], nil }

	got := Deduplicate([]uint32{1, 2, 3, 4}, fetch)
	want := []uint32{2, 3, 4}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Deduplicate() = %v, want %v", got, want)
	}
}

func TestDeduplicateSkipsFailures(t *testing.T) {
	fetch := func(uid uint32) ([]byte, error) {
		switch uid {
		case 1:
			return nil, errors.New("connection reset")
		case 2:
			return []byte("no headers here"), nil
		default:
			return rawMessage("Jane <jane@acme.com>"), nil
		}
	}

	got := Deduplicate([]uint32{1, 2, 3}, fetch)
	want := []uint32{3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Deduplicate() = %v, want %v", got, want)
	}
}

func TestDeduplicateManySenders(t *testing.T) {
	// 250 messages from 230 distinct senders: the first 20 senders appear
	// twice, the later listing winning each time.
	var uids []uint32
	messages := make(map[uint32][]byte)
	for i := 0; i < 250; i++ {
		uid := uint32(i + 1)
		sender := i % 230
		messages[uid] = rawMessage(fmt.Sprintf("Sender %d <sender%d@example.com>", sender, sender))
		uids = append(uids, uid)
	}
	fetch := func(uid uint32) ([]byte, error) { return messages[uid], nil }

	got := Deduplicate(uids, fetch)
	if len(got) != 230 {
		t.Fatalf("Deduplicate() returned %d uids, want 230", len(got))
	}
	// The duplicated senders 0..19 must be represented by uids 231..250.
	seen := make(map[uint32]bool)
	for _, uid := range got {
		seen[uid] = true
	}
	for uid := uint32(1); uid <= 20; uid++ {
		if seen[uid] {
			t.Errorf("uid %d kept, want later duplicate %d instead", uid, uid+230)
		}
		if !seen[uid+230] {
			t.Errorf("uid %d missing from result", uid+230)
		}
	}
}
