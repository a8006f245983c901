package stepwise_test

import (
	"fmt"
	"log"

	"github.com/aretw0/stepwise"
	"github.com/aretw0/stepwise/pkg/catalog"
	"github.com/aretw0/stepwise/pkg/driver"
	"github.com/aretw0/stepwise/pkg/playback"
)

// ExampleOpen walks a trace by hand, without a timer.
func ExampleOpen() {
	sess, err := stepwise.Open("two-sum")
	if err != nil {
		log.Fatal(err)
	}
	defer sess.Close()

	for i := 0; i < sess.State().TotalSteps; i++ {
		sess.Seek(i)
		fmt.Println(sess.View().Step.Description)
	}

	// Output:
	// Create an empty hash map from value to index
	// complement = 9 - 2 = 7 is not in the map
	// Store 2 → 0 in the map
	// complement = 9 - 7 = 2 was seen at index 0
	// Found it: nums[0] + nums[1] = 9
}

// ExampleOpen_autoplay drives playback on a virtual clock.
func ExampleOpen_autoplay() {
	sched := playback.NewManualScheduler()
	sess, err := stepwise.Open("valid-parentheses",
		driver.WithEngineOptions(playback.WithScheduler(sched)),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer sess.Close()

	if _, err := sess.ApplyValues(map[string]string{"s": "()"}); err != nil {
		log.Fatal(err)
	}
	sess.Play()
	for sched.FireNext() {
	}

	st := sess.State()
	fmt.Println(st.CurrentStep == st.TotalSteps-1, st.IsPlaying)

	// Output:
	// true false
}

// ExampleCatalog lists the problems that have a visualizer.
func ExampleCatalog() {
	cat, err := stepwise.Catalog()
	if err != nil {
		log.Fatal(err)
	}
	for _, p := range cat.List(catalog.Filter{Visualizable: true}) {
		fmt.Println(p.ID, p.Slug, p.Template)
	}
}
