package datastore_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/ragsql/pkg/datastore"
)

var _ = Describe("ExecutionError", func() {
	It("includes the class and message and unwraps the cause", func() {
		cause := errors.New("permission denied for table tbDatiConsumo")
		err := &datastore.ExecutionError{
			Query:   "SELECT 1",
			Message: cause.Error(),
			Class:   datastore.ClassPermission,
			Err:     cause,
		}

		Expect(err.Error()).To(Equal("query execution failed (permission): permission denied for table tbDatiConsumo"))
		Expect(errors.Is(err, cause)).To(BeTrue())
	})
})
