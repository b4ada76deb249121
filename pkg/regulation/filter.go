package regulation

// FilterByCountry returns the records whose country is in selected, in
// their original order and with all columns. Matching is exact and
// case-sensitive on NFC-normalized keys. An empty selection yields an empty
// table.
func FilterByCountry(t *Table, selected []string) *Table {
	if len(selected) == 0 || t == nil {
		return t.derive(nil)
	}

	set := make(map[string]struct{}, len(selected))
	for _, c := range selected {
		set[NormalizeCountry(c)] = struct{}{}
	}

	var records []Record
	for _, r := range t.Records {
		if _, ok := set[r.Country]; ok {
			records = append(records, r.clone())
		}
	}
	return t.derive(records)
}

// FilterCountry returns the records for a single country.
func FilterCountry(t *Table, country string) *Table {
	return FilterByCountry(t, []string{country})
}
