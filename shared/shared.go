package shared

import (
	"context"
	"fmt"
	"innstay/shared/cache"
	"github.com/rs/zerolog/log"
	"math"
	"innstay/shared/constant"
	"innstay/shared/dto"
	"innstay/shared/timezone"
	"reflect"
	"strconv"
)

func ConvertStringToBool(value string) *bool {
	if value == "" {
		return nil
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Error().Err(err).Msg("failed to convert string to bool")

		return nil
	}

	return &boolValue
}

func ConvertStringToInt(value string) (int, error) {
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("failed to convert string to int: %w", err)
	}

	return intValue, nil
}

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// TransformFields converts the fields of a struct into a map of updated fields.
func TransformFields(data interface{}, username string) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" {
			continue
		}

		updatedFields[fieldName] = field.Interface()
	}

	updatedFields[constant.FieldModifiedAt] = timezone.Now()
	updatedFields[constant.FieldModifiedBy] = username

	return updatedFields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// BuildCacheKey joins a prefix and key parts with ":".
func BuildCacheKey(prefix string, parts ...string) string {
	key := prefix
	for _, part := range parts {
		key += ":" + part
	}

	return key
}

// BuildCacheKeyWithQuery derives a cache key from the query params and filter applied to a listing.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	return fmt.Sprintf("%s:%d:%d:%s:%s:%s:%v", prefix, params.Page, params.Limit, params.SortBy, params.SortDir, where, args)
}

// InvalidateCaches clears every cache entry under the given prefix, logging failures.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+"*"); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}
