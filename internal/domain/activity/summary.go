package activity

// TotalHours sums logged minutes across activities and converts to hours.
// An empty list yields 0.0.
func TotalHours(activities []Activity) float64 {
	total := 0
	for _, a := range activities {
		total += a.DurationMinutes
	}
	return float64(total) / 60
}

// LastDate returns the most recent activity date as "YYYY-MM-DD", or ""
// when no activities are loaded. The max is taken lexicographically over the
// ISO date prefix of StartTime, which is correct as long as the backend
// delivers consistently formatted ISO-8601 timestamps.
func LastDate(activities []Activity) string {
	last := ""
	for _, a := range activities {
		d := a.StartTime
		if len(d) > 10 {
			d = d[:10]
		}
		if d > last {
			last = d
		}
	}
	return last
}

// Merge applies an edit and the server's PATCH response onto a previously
// stored activity. For each field the server's returned value wins, then the
// locally submitted edit, then the stored value.
func Merge(prev Activity, edit, resp Patch) Activity {
	merged := prev
	merged.StartTime = coalesce(resp.StartTime, edit.StartTime, prev.StartTime)
	merged.EndTime = coalesce(resp.EndTime, edit.EndTime, prev.EndTime)
	if resp.DurationMinutes != nil {
		merged.DurationMinutes = *resp.DurationMinutes
	} else if edit.DurationMinutes != nil {
		merged.DurationMinutes = *edit.DurationMinutes
	}
	merged.Notes = coalesce(resp.Notes, edit.Notes, prev.Notes)
	if resp.IsBillable != nil {
		merged.IsBillable = *resp.IsBillable
	} else if edit.IsBillable != nil {
		merged.IsBillable = *edit.IsBillable
	}
	if resp.IsFlagged != nil {
		merged.IsFlagged = *resp.IsFlagged
	} else if edit.IsFlagged != nil {
		merged.IsFlagged = *edit.IsFlagged
	}

	var stID *string
	if resp.ServiceTypeID != nil {
		stID = resp.ServiceTypeID
	} else if edit.ServiceTypeID != nil {
		stID = edit.ServiceTypeID
	}
	if stID != nil {
		switch {
		case *stID == "":
			merged.ServiceType = nil
		case merged.ServiceType == nil || merged.ServiceType.ID != *stID:
			// name is unknown until the next full fetch
			merged.ServiceType = &ServiceTypeRef{ID: *stID}
		}
	}
	return merged
}

func coalesce(first, second *string, fallback string) string {
	if first != nil {
		return *first
	}
	if second != nil {
		return *second
	}
	return fallback
}
