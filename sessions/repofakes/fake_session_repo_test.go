package fakesessionrepo_test

import (
	"testing"

	fakesessionrepo "github.com/jrsteele09/clinic-console/sessions/repofakes"
	"github.com/jrsteele09/clinic-console/sessions/sessiontest"
)

func TestFakeSessionRepoContract(t *testing.T) {
	sessiontest.RunRepoContract(t, fakesessionrepo.NewFakeSessionRepo())
}
