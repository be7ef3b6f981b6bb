// Copyright (c) 2025 GunplaHub
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"github.com/gunplahub/api/kits/models"
)

// groupImages buckets images per kit, preserving the repository ordering
// (primary flag first, then position).
func groupImages(images []models.KitImage) map[int64][]models.KitImage {
	grouped := make(map[int64][]models.KitImage)
	for _, img := range images {
		grouped[img.KitID] = append(grouped[img.KitID], img)
	}
	return grouped
}

// primaryImage picks the representative image: the first flagged primary,
// else the first by position, else nil.
func primaryImage(images []models.KitImage) *models.KitImage {
	for i := range images {
		if images[i].IsPrimary {
			img := images[i]
			return &img
		}
	}
	if len(images) > 0 {
		img := images[0]
		return &img
	}
	return nil
}

// refData is the batch-loaded reference context for one shaping pass.
type refData struct {
	grades    map[int64]models.GradeSummary
	series    map[int64]models.SeriesSummary
	timelines map[int64]models.TimelineSummary
	images    map[int64][]models.KitImage
}

// shapeRecord flattens one kit row and its reference data into a
// display-ready record. A missing reference resolves to null; the row is
// never dropped.
func shapeRecord(kit models.Kit, refs refData) models.KitRecord {
	record := models.KitRecord{
		ID:   kit.ID,
		Name: kit.Name,
	}

	if kit.NameEn.Valid {
		record.NameEn = &kit.NameEn.String
	}
	if kit.PriceKRW.Valid {
		record.PriceKRW = &kit.PriceKRW.Int64
	}
	if kit.ReleaseDate.Valid {
		record.ReleaseDate = &kit.ReleaseDate.Time
	}
	if kit.LimitedType.Valid {
		record.LimitedType = &kit.LimitedType.String
	}

	if kit.GradeID.Valid {
		if grade, ok := refs.grades[kit.GradeID.Int64]; ok {
			record.Grade = &grade
		}
	}
	if kit.SeriesID.Valid {
		if series, ok := refs.series[kit.SeriesID.Int64]; ok {
			record.Series = &series
		}
	}
	if kit.TimelineID.Valid {
		if timeline, ok := refs.timelines[kit.TimelineID.Int64]; ok {
			record.Timeline = &timeline
		}
	}

	record.PrimaryImage = primaryImage(refs.images[kit.ID])
	return record
}

// shapeRecords shapes a page of kit rows in order.
func shapeRecords(kits []models.Kit, refs refData) []models.KitRecord {
	records := make([]models.KitRecord, 0, len(kits))
	for _, kit := range kits {
		records = append(records, shapeRecord(kit, refs))
	}
	return records
}

// collectRefIDs gathers the distinct reference ids present in a page.
func collectRefIDs(kits []models.Kit) (kitIDs, gradeIDs, seriesIDs, timelineIDs []int64) {
	seenGrade := make(map[int64]bool)
	seenSeries := make(map[int64]bool)
	seenTimeline := make(map[int64]bool)

	for _, kit := range kits {
		kitIDs = append(kitIDs, kit.ID)
		if kit.GradeID.Valid && !seenGrade[kit.GradeID.Int64] {
			seenGrade[kit.GradeID.Int64] = true
			gradeIDs = append(gradeIDs, kit.GradeID.Int64)
		}
		if kit.SeriesID.Valid && !seenSeries[kit.SeriesID.Int64] {
			seenSeries[kit.SeriesID.Int64] = true
			seriesIDs = append(seriesIDs, kit.SeriesID.Int64)
		}
		if kit.TimelineID.Valid && !seenTimeline[kit.TimelineID.Int64] {
			seenTimeline[kit.TimelineID.Int64] = true
			timelineIDs = append(timelineIDs, kit.TimelineID.Int64)
		}
	}
	return kitIDs, gradeIDs, seriesIDs, timelineIDs
}
