package client

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

type RequestDecoratorFunc func([]string) []string

type AggregationMethod string

const (
	AggregatedAverage AggregationMethod = "avg"
	AggregatedCount   AggregationMethod = "count"
	AggregatedMax     AggregationMethod = "max"
	AggregatedMin     AggregationMethod = "min"
	AggregatedSum     AggregationMethod = "sum"
)

type AggregationPeriod string

const (
	ByYear   AggregationPeriod = "year"
	ByMonth  AggregationPeriod = "month"
	ByDay    AggregationPeriod = "day"
	ByHour   AggregationPeriod = "hour"
	ByMinute AggregationPeriod = "minute"
	BySecond AggregationPeriod = "second"
)

func Aggregation(method AggregationMethod, period AggregationPeriod) RequestDecoratorFunc {
	return func(params []string) []string {
		return append(params, fmt.Sprintf("aggrMethod=%s&aggrPeriod=%s", method, period))
	}
}

func Attributes(attrs []string) RequestDecoratorFunc {
	return func(params []string) []string {
		return append(params, fmt.Sprintf("attrs=%s", strings.Join(attrs, ",")))
	}
}

func FromDate(timeAt time.Time) RequestDecoratorFunc {
	return func(params []string) []string {
		return append(params, fmt.Sprintf("fromDate=%s", timeAt.UTC().Format(time.RFC3339)))
	}
}

func ToDate(timeAt time.Time) RequestDecoratorFunc {
	return func(params []string) []string {
		return append(params, fmt.Sprintf("toDate=%s", timeAt.UTC().Format(time.RFC3339)))
	}
}

func IDs(ids []string) RequestDecoratorFunc {
	return func(params []string) []string {
		for idx, id := range ids {
			ids[idx] = url.QueryEscape(id)
		}
		return append(params, fmt.Sprintf("id=%s", strings.Join(ids, ",")))
	}
}

func IDPattern(pattern string) RequestDecoratorFunc {
	return func(params []string) []string {
		return append(params, fmt.Sprintf("idPattern=%s", url.QueryEscape(pattern)))
	}
}

func LastN(count uint64) RequestDecoratorFunc {
	return func(params []string) []string {
		return append(params, fmt.Sprintf("lastN=%d", count))
	}
}

func Limit(count uint64) RequestDecoratorFunc {
	return func(params []string) []string {
		return append(params, fmt.Sprintf("limit=%d", count))
	}
}

func Offset(count uint64) RequestDecoratorFunc {
	return func(params []string) []string {
		return append(params, fmt.Sprintf("offset=%d", count))
	}
}

func Types(typeNames []string) RequestDecoratorFunc {
	return func(params []string) []string {
		return append(params, fmt.Sprintf("type=%s", strings.Join(typeNames, ",")))
	}
}
