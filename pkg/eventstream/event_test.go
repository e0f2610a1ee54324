package eventstream_test

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/ragsql/pkg/eventstream"
)

var _ = Describe("Event", func() {
	It("marshals InteractionConfirmedEvent with expected top-level keys", func() {
		code := "print(df.mean())"
		event := eventstream.NewInteractionConfirmedEvent(eventstream.InteractionMeta{
			ID:           7,
			Question:     "average fuel efficiency for plate AB123CD in 2023",
			QueryText:    "SELECT AVG([Consumo_km/l]) FROM tbDatiConsumo",
			Explanation:  "Average consumption of AB123CD.",
			AnalysisCode: &code,
			CreatedBy:    "admin",
			CreatedAt:    time.Unix(1735689600, 0).UTC(),
		}, eventstream.IndexMeta{Provider: "hnsw", Count: 7})

		payload, err := json.Marshal(event)
		Expect(err).NotTo(HaveOccurred())

		var got map[string]any
		Expect(json.Unmarshal(payload, &got)).To(Succeed())

		Expect(got).To(HaveKey("schema_version"))
		Expect(got).To(HaveKey("event_type"))
		Expect(got).To(HaveKey("event_id"))
		Expect(got).To(HaveKey("emitted_at"))
		Expect(got).To(HaveKey("interaction"))
		Expect(got).To(HaveKey("index"))
		Expect(got["interaction"]).To(HaveKeyWithValue("analysis_code", code))
		Expect(got["interaction"]).NotTo(HaveKey("embedding"))
	})

	It("stamps a fresh id and version", func() {
		a := eventstream.NewInteractionConfirmedEvent(eventstream.InteractionMeta{ID: 1}, eventstream.IndexMeta{})
		b := eventstream.NewInteractionConfirmedEvent(eventstream.InteractionMeta{ID: 1}, eventstream.IndexMeta{})

		Expect(a.EventID).NotTo(BeEmpty())
		Expect(a.EventID).NotTo(Equal(b.EventID))
		Expect(a.SchemaVersion).To(Equal(eventstream.SchemaVersionV1))
		Expect(a.EventType).To(Equal("interaction.confirmed"))
		Expect(a.EmittedAt).NotTo(BeZero())
	})

	It("provides ErrNilEvent for nil payload validation", func() {
		Expect(eventstream.ErrNilEvent).To(MatchError("nil interaction event"))
	})
})
