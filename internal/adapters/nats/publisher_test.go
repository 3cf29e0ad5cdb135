package natsadapter_test

import (
	"strings"
	"testing"

	natsadapter "github.com/samirrijal/litpass/internal/adapters/nats"
)

func TestSubjects(t *testing.T) {
	if got := natsadapter.OriginSubject("abc"); got != "litpass.origin.abc" {
		t.Errorf("origin subject = %q", got)
	}
	if got := natsadapter.ShareSubject("abc"); got != "litpass.share.abc" {
		t.Errorf("share subject = %q", got)
	}
}

func TestStreamsCoverSubjects(t *testing.T) {
	covered := func(subject string) bool {
		for _, s := range natsadapter.Streams {
			for _, pattern := range s.Subjects {
				if strings.HasSuffix(pattern, ">") && strings.HasPrefix(subject, strings.TrimSuffix(pattern, ">")) {
					return true
				}
			}
		}
		return false
	}
	for _, subj := range []string{natsadapter.OriginSubject("s1"), natsadapter.ShareSubject("s1")} {
		if !covered(subj) {
			t.Errorf("no stream captures %s", subj)
		}
	}
}
