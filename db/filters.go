package db

import (
	"regexp"

	"eventspark/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// eventFilter turns a query into a MongoDB filter. Search is matched
// literally, case-insensitive, against name and description.
func eventFilter(q models.EventQuery) bson.M {
	filter := bson.M{}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.CreatedBy != "" {
		filter["createdby"] = q.CreatedBy
	}

	date := bson.M{}
	if q.Date != "" {
		date["$eq"] = q.Date
	}
	if q.DateAfter != "" {
		date["$gt"] = q.DateAfter
	}
	if len(date) > 0 {
		filter["date"] = date
	}

	if q.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
		}
	}
	return filter
}

var eventSort = bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}}

// reserveFilter matches the event only while n more seats fit.
func reserveFilter(eventID string, n int) bson.M {
	return bson.M{
		"eventid": eventID,
		"$expr": bson.M{
			"$lte": bson.A{
				bson.M{"$add": bson.A{"$soldtickets", n}},
				"$totalseats",
			},
		},
	}
}

func activeSeatsFilter(eventID string, seats []string) bson.M {
	filter := bson.M{"eventid": eventID, "status": models.BookingActive}
	if seats != nil {
		filter["seatnumber"] = bson.M{"$in": seats}
	}
	return filter
}
