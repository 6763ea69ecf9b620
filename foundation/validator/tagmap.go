package validator

var tagMap = map[string]string{
	"required":      "required",
	"omitempty":     "optional",
	"email":         "invalid_email",
	"e164":          "invalid_phone",
	"uuid":          "invalid_uuid",
	"url":           "invalid_url",
	"hostname":      "invalid_hostname",
	"hostname_port": "invalid_address",
	"max":           "too_long",
	"min":           "too_short",
	"gt":            "too_small",
	"lt":            "too_large",
	"gte":           "too_small_or_equal",
	"lte":           "too_large_or_equal",
	"len":           "invalid_length",
	"oneof":         "invalid_choice",
	"numeric":       "only_numbers_allowed",
	"latitude":      "invalid_latitude",
	"longitude":     "invalid_longitude",
	"iso2":          "invalid_country",
	"calling_code":  "invalid_calling_code",
	"cron":          "invalid_schedule",
}

func mapTagToCode(tag string) string {
	if code, ok := tagMap[tag]; ok {
		return code
	}
	return "invalid"
}
