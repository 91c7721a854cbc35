package providers

// NotFound builds the failed Resolution for page with a human-readable
// reason. The note always starts with the page URL when there is one.
func NotFound(page, reason string) Resolution {
	note := reason
	if page != "" {
		note = page + " " + reason
	}

	return Resolution{PageURL: page, Note: note}
}

// Invalid is the Resolution for a site kind nobody handles.
func Invalid(kind Kind) Resolution {
	return Resolution{Note: "invalid site: " + string(kind)}
}

// Located is the successful Resolution.
func Located(page, image string) Resolution {
	return Resolution{PageURL: page, ImageURL: image, Found: true}
}
