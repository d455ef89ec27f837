package catalog

import (
	"hash/fnv"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/flametower/pkg/flame"
	"github.com/matzehuels/flametower/pkg/units"
)

// Frames the generator draws from, grouped by how deep in a stack they sit.
var (
	entryFrames = []string{
		"java.util.concurrent.ThreadPoolExecutor$Worker.run",
		"org.apache.tomcat.util.net.NioEndpoint$SocketProcessor.doRun",
		"org.apache.kafka.clients.consumer.KafkaConsumer.poll",
		"java.util.concurrent.ScheduledThreadPoolExecutor$ScheduledFutureTask.run",
	}
	serviceFrames = []string{
		"com.acme.server.Router.dispatch",
		"com.acme.orders.OrderService.placeOrder",
		"com.acme.orders.OrderRepository.save",
		"com.acme.inventory.StockService.reserve",
		"com.acme.billing.InvoiceService.render",
		"com.acme.search.QueryParser.parse",
		"com.acme.search.IndexReader.lookup",
	}
	libraryFrames = []string{
		"com.fasterxml.jackson.databind.ObjectMapper.readValue",
		"com.fasterxml.jackson.databind.ObjectMapper.writeValueAsString",
		"org.postgresql.jdbc.PgPreparedStatement.executeQuery",
		"org.slf4j.impl.Log4jLoggerAdapter.info",
		"java.util.regex.Pattern.matcher",
		"java.lang.String.format",
		"java.util.HashMap.resize",
		"java.util.zip.Deflater.deflate",
		"java.net.SocketInputStream.read",
		"sun.nio.ch.EPollSelectorImpl.doSelect",
		"java.lang.Object.wait",
	}
	taskNames = []string{
		"main",
		"http-nio-8080-exec-1",
		"http-nio-8080-exec-2",
		"http-nio-8080-exec-3",
		"http-nio-8080-exec-4",
		"scheduler-1",
		"kafka-consumer-0",
		"GC Thread#0",
	}
)

const maxGeneratedDepth = 9

// tasksFor returns the tasks of a file: "main" plus a seeded selection of the
// other task names, at least three in total.
func tasksFor(fileID string) []string {
	rng := rngFor(fileID)
	n := 3 + rng.IntN(len(taskNames)-2)
	tasks := []string{taskNames[0]}
	for _, i := range rng.Perm(len(taskNames) - 1)[:n-1] {
		tasks = append(tasks, taskNames[i+1])
	}
	slices.SortStableFunc(tasks[1:], func(a, b string) int {
		return slices.Index(taskNames, a) - slices.Index(taskNames, b)
	})
	return tasks
}

// generateTree builds the tree of one task. The root is named "root" so
// trees of different tasks merge into one.
func generateTree(fileID string, dim Dimension, task string) *flame.Node {
	rng := rngFor(fileID, dim.Key, task)
	budget := budgetFor(rng, dim.Unit)

	g := generator{rng: rng}
	thread := g.node(task, budget, 1)
	return &flame.Node{Name: "root", Value: budget, Children: []*flame.Node{thread}}
}

type generator struct {
	rng *rand.Rand
}

// node creates a frame of the given weight and spends 60-95% of it on up to
// three children.
func (g generator) node(name string, value int64, depth int) *flame.Node {
	n := &flame.Node{Name: name, Value: value}
	if depth >= maxGeneratedDepth || value < 8 {
		return n
	}

	pool := g.pool(depth)
	count := 1 + g.rng.IntN(3)
	if depth > 3 && g.rng.IntN(4) == 0 {
		return n
	}

	spend := value * int64(60+g.rng.IntN(36)) / 100
	used := map[string]bool{}
	for i := range count {
		share := spend / int64(count-i)
		if i < count-1 && share > 1 {
			share = share/2 + g.rng.Int64N(share)
		}
		share = min(share, spend)
		if share <= 0 {
			break
		}
		spend -= share

		child := pool[g.rng.IntN(len(pool))]
		if used[child] {
			continue
		}
		used[child] = true
		n.Children = append(n.Children, g.node(child, share, depth+1))
	}
	return n
}

func (g generator) pool(depth int) []string {
	switch {
	case depth == 1:
		return entryFrames
	case depth < 4:
		return serviceFrames
	}
	return libraryFrames
}

func budgetFor(rng *rand.Rand, unit string) int64 {
	switch unit {
	case units.Nanoseconds:
		return 50_000_000 + rng.Int64N(5_000_000_000)
	case units.Bytes:
		return 1<<20 + rng.Int64N(1<<30)
	}
	return 100 + rng.Int64N(5000)
}

func rngFor(parts ...string) *rand.Rand {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	seed := h.Sum64()
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
