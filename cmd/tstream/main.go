// Command tstream connects to the Twitter Streaming API's statuses/filter
// endpoint and prints each status's text as it arrives, reconnecting
// automatically on failure until interrupted.
//
// Grounded on the teacher's examples/streaming.go: credential loading
// from the environment, a delegate that prints incoming content, and a
// SIGINT/SIGTERM wait before a clean shutdown — generalized here from a
// one-shot v2 bearer-token Streams.Filter call to starting and stopping a
// long-lived Monitor.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/carbonrook/tstream/twitter"
)

func main() {
	_ = godotenv.Load()

	consumerKey := os.Getenv("TWITTER_CONSUMER_KEY")
	consumerSecret := os.Getenv("TWITTER_CONSUMER_SECRET")
	accessToken := os.Getenv("TWITTER_ACCESS_TOKEN")
	accessSecret := os.Getenv("TWITTER_ACCESS_SECRET")
	track := os.Getenv("TWITTER_TRACK")

	if consumerKey == "" || consumerSecret == "" || accessToken == "" || accessSecret == "" {
		fmt.Println("TWITTER_CONSUMER_KEY, TWITTER_CONSUMER_SECRET, TWITTER_ACCESS_TOKEN, and TWITTER_ACCESS_SECRET must all be set")
		os.Exit(1)
	}

	log := logrus.StandardLogger()
	logger := twitter.NewLogrusLogger(log)
	twitter.SetDefaultLogger(logger)

	httpClient := twitter.NewOAuth1Client(consumerKey, consumerSecret, accessToken, accessSecret)
	opener := twitter.NewFeedOpener(httpClient, nil, logger, nil)
	monitor := twitter.NewMonitor(twitter.NewFilterOpener(opener), twitter.NewRealClock(), logger, nil)

	monitor.SetDelegate(func(status *twitter.Status) {
		fmt.Println(status.Text)
	})
	if track != "" {
		monitor.SetFilters(map[string]string{"track": strings.Join(strings.Split(track, ","), ",")})
	}

	fmt.Println("Starting stream...")
	monitor.Start()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	fmt.Println("Stopping stream...")
	monitor.Stop()
}
