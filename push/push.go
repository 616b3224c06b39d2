// Package push delivers Web Push notifications to subscribed browsers.
package push

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"ametogo/models"

	"github.com/SherClockHolmes/webpush-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Notifier struct {
	subs       *mongo.Collection
	publicKey  string
	privateKey string
	subscriber string
}

// New reads VAPID keys from the environment, generating a throwaway pair
// when none are set so development works out of the box. Generated keys are
// logged so they can be pinned for production.
func New(subs *mongo.Collection) *Notifier {
	publicKey := os.Getenv("VAPID_PUBLIC_KEY")
	privateKey := os.Getenv("VAPID_PRIVATE_KEY")

	if publicKey == "" || privateKey == "" {
		var err error
		privateKey, publicKey, err = webpush.GenerateVAPIDKeys()
		if err != nil {
			log.Printf("Failed to generate VAPID keys, push disabled: %v", err)
			return &Notifier{subs: subs}
		}
		log.Println("Generated new VAPID keys - for production, set these as environment variables:")
		log.Printf("   VAPID_PUBLIC_KEY: %s", publicKey)
		log.Printf("   VAPID_PRIVATE_KEY: %s", privateKey)
	}

	subscriber := os.Getenv("VAPID_SUBSCRIBER")
	if subscriber == "" {
		subscriber = "mailto:admin@ametogo.app"
	}

	return &Notifier{
		subs:       subs,
		publicKey:  publicKey,
		privateKey: privateKey,
		subscriber: subscriber,
	}
}

func (n *Notifier) PublicKey() string {
	return n.publicKey
}

// SaveSubscription upserts the browser subscription for a user, one per user.
func (n *Notifier) SaveSubscription(ctx context.Context, userID primitive.ObjectID, sub webpush.Subscription) error {
	doc := models.PushSubscription{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Sub:    sub,
	}
	_, err := n.subs.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": doc},
		options.Update().SetUpsert(true),
	)
	return err
}

// Send pushes a notification to the user's subscribed browser, if any.
// Delivery is best effort and runs off the request path; an expired
// subscription (410) is removed so we stop pushing into the void.
func (n *Notifier) Send(userID primitive.ObjectID, title, body, url string) {
	if n.privateKey == "" {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Panic in push notification: %v", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var sub models.PushSubscription
		err := n.subs.FindOne(ctx, bson.M{"userId": userID}).Decode(&sub)
		if err == mongo.ErrNoDocuments {
			return
		}
		if err != nil {
			log.Printf("Failed to find subscription for user %s: %v", userID.Hex(), err)
			return
		}

		payload, err := json.Marshal(map[string]interface{}{
			"title": title,
			"body":  body,
			"data": map[string]interface{}{
				"url":       url,
				"timestamp": time.Now().Unix(),
			},
		})
		if err != nil {
			log.Printf("Failed to marshal push payload: %v", err)
			return
		}

		resp, err := webpush.SendNotification(payload, &sub.Sub, &webpush.Options{
			Subscriber:      n.subscriber,
			VAPIDPublicKey:  n.publicKey,
			VAPIDPrivateKey: n.privateKey,
			TTL:             30,
		})
		n.finishSend(ctx, userID, resp, err)
	}()
}

// finishSend closes the push response whenever there is one and cleans up an
// expired (410) subscription.
func (n *Notifier) finishSend(ctx context.Context, userID primitive.ObjectID, resp *http.Response, err error) {
	if resp != nil {
		defer resp.Body.Close()
	}
	if err == nil {
		return
	}

	log.Printf("Failed to send push notification to user %s: %v", userID.Hex(), err)
	if resp != nil && resp.StatusCode == http.StatusGone {
		log.Printf("Push subscription expired for user %s, deleting", userID.Hex())
		if _, delErr := n.subs.DeleteOne(ctx, bson.M{"userId": userID}); delErr != nil {
			log.Printf("Failed to delete expired subscription: %v", delErr)
		}
	}
}

// NotifyMatch tells a user they have a new mutual match.
func (n *Notifier) NotifyMatch(userID primitive.ObjectID, matchedName string) {
	n.Send(userID, "Nouveau match !", "Vous avez matché avec "+matchedName, "/matches")
}

// NotifyMessage tells a user a match sent them a message.
func (n *Notifier) NotifyMessage(userID primitive.ObjectID, senderName, text string) {
	if senderName == "" {
		senderName = "Quelqu'un"
	}
	n.Send(userID, senderName+" vous a écrit", truncate(text, 100), "/chat")
}

// truncate shortens s to at most n characters, counting runes so accented
// message text is never cut mid-character.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// NotifyProposal tells a user someone wants to connect with them.
func (n *Notifier) NotifyProposal(userID primitive.ObjectID, fromName string) {
	n.Send(userID, "Nouvelle demande", fromName+" souhaite entrer en contact avec vous", "/matches")
}
