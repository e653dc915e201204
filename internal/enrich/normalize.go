package enrich

// Normalize fills legacy and extended field aliases in both directions so
// validation always sees a fully populated document. aiRecap and
// resumeSummary mirror each other, aiActions mirrors nextActions (capped at
// three entries), and missing confidence fields default to 0.0 and "low".
func Normalize(doc map[string]any) {
	if _, ok := doc["aiRecap"]; !ok {
		if v, ok := doc["resumeSummary"]; ok {
			doc["aiRecap"] = v
		}
	}
	if _, ok := doc["resumeSummary"]; !ok {
		if v, ok := doc["aiRecap"]; ok {
			doc["resumeSummary"] = v
		}
	}
	if _, ok := doc["aiActions"]; !ok {
		if actions, ok := doc["nextActions"].([]any); ok {
			n := len(actions)
			if n > 3 {
				n = 3
			}
			copied := make([]any, n)
			copy(copied, actions[:n])
			doc["aiActions"] = copied
		}
	}
	if _, ok := doc["nextActions"]; !ok {
		if v, ok := doc["aiActions"]; ok {
			doc["nextActions"] = v
		}
	}
	if _, ok := doc["aiConfidenceScore"]; !ok {
		doc["aiConfidenceScore"] = 0.0
	}
	if _, ok := doc["aiConfidenceLabel"]; !ok {
		doc["aiConfidenceLabel"] = "low"
	}
}
