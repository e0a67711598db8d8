package lockdrop

import "time"

// ResolveRate checks a rate submission and returns the submitting authority.
func (v *View) ResolveRate(rate TickerRate) (AuthorityID, error) {
	authorities, err := v.Authorities()
	if err != nil {
		return AuthorityID{}, err
	}
	authority, ok := authorities.At(rate.Authority)
	if !ok {
		return AuthorityID{}, ErrUnknownAuthority
	}
	return authority, nil
}

// SetDollarRate stores the sample of one authority and recomputes the
// aggregate from every sample that has not expired. Expired samples are
// removed.
func (m *Module) SetDollarRate(rate TickerRate) (DollarRate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	authority, err := m.ResolveRate(rate)
	if err != nil {
		return DollarRate{}, err
	}
	samples, err := m.Samples()
	if err != nil {
		return DollarRate{}, err
	}
	prev, err := m.DollarRate()
	if err != nil {
		return DollarRate{}, err
	}

	now := m.blockTime()
	sample := RateSample{Timestamp: now, BTC: rate.BTC, ETH: rate.ETH}
	samples = upsertSample(samples, authority, sample)

	aggregate, expired := filterRates(samples, now, m.params.MedianFilterExpire, m.params.MedianFilterWidth, prev)

	tx, err := m.begin()
	if err != nil {
		return DollarRate{}, err
	}
	if err := tx.put(rateKey(authority), sample); err != nil {
		return DollarRate{}, err
	}
	for _, id := range expired {
		tx.batch.Delete(rateKey(id))
	}
	if err := tx.put(keyDollarRate, aggregate); err != nil {
		return DollarRate{}, err
	}
	tx.emit(Event{Kind: EventNewDollarRate, Authority: &authority, Rate: &aggregate})
	if err := tx.commit(); err != nil {
		return DollarRate{}, err
	}
	return aggregate, nil
}

// filterRates feeds every fresh sample, in the given order, through one median
// filter per asset. A sample is fresh while now - timestamp < expire. If no
// sample is fresh prev is returned unchanged.
func filterRates(samples []AuthoritySample, now uint64, expire time.Duration, width int, prev DollarRate) (DollarRate, []AuthorityID) {
	btc := newMedianFilter(width)
	eth := newMedianFilter(width)
	ttl := uint64(expire / time.Second)

	aggregate := prev
	var expired []AuthorityID
	for _, s := range samples {
		var age uint64
		if now > s.Sample.Timestamp {
			age = now - s.Sample.Timestamp
		}
		if age >= ttl {
			expired = append(expired, s.Authority)
			continue
		}
		aggregate.BTC = btc.Consume(s.Sample.BTC)
		aggregate.ETH = eth.Consume(s.Sample.ETH)
	}
	return aggregate, expired
}
