package datastore

import (
	"fmt"
	"os"
	"strings"
)

// DefaultSchema describes the fuel consumption table the planner writes
// queries for.
const DefaultSchema = `Table: tbDatiConsumo
Columns:
- ID (int, PK)
- Data (date)
- Targa (varchar 10)
- Numero_Interno (varchar 10)
- Km_Totali (int)
- Litri_Totali (decimal)
- "Consumo_km/l" (decimal, quote the name)
- Ore_Guida (decimal)
- Ore_Lavoro (decimal)
- Ore_Disp (decimal)
- Ore_Riposo (decimal)`

// LoadSchema reads a schema description from path, or returns DefaultSchema
// when path is empty.
func LoadSchema(path string) (string, error) {
	if path == "" {
		return DefaultSchema, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading schema description: %w", err)
	}

	schema := strings.TrimSpace(string(data))
	if schema == "" {
		return "", fmt.Errorf("schema description %s is empty", path)
	}
	return schema, nil
}
